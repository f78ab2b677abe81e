package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

type sessionClaims struct {
	UserID  string `json:"uid"`
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Picture string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// Tokens подписывает и проверяет сессионные токены (HS256).
type Tokens struct {
	secret   []byte
	issuer   string
	audience []string
	ttl      time.Duration
	now      func() time.Time
}

// NewTokens создаёт Tokens из секции auth конфигурации.
func NewTokens(cfg config.AuthConfig) *Tokens {
	return &Tokens{
		secret:   []byte(cfg.JWTSecret),
		issuer:   cfg.Issuer,
		audience: cfg.Audience,
		ttl:      cfg.SessionTTL,
		now:      time.Now,
	}
}

// Issue выпускает токен со снимком identity; возвращает токен и момент истечения.
func (t *Tokens) Issue(id models.Identity) (string, time.Time, error) {
	const op = "auth/tokens/Issue"

	now := t.now().UTC()
	exp := now.Add(t.ttl)

	claims := sessionClaims{
		UserID:  id.ID,
		Name:    id.DisplayName,
		Email:   id.Email,
		Picture: id.AvatarURL,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    t.issuer,
			Subject:   id.ID,
			Audience:  jwt.ClaimStrings(t.audience),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	return signed, exp, nil
}

// Parse проверяет подпись, срок, issuer и audience; возвращает identity из токена.
func (t *Tokens) Parse(tokenStr string) (*models.Identity, error) {
	const op = "auth/tokens/Parse"

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(5 * time.Second),
		jwt.WithIssuer(t.issuer),
		jwt.WithTimeFunc(t.now),
	}
	if len(t.audience) > 0 {
		opts = append(opts, jwt.WithAudience(t.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{},
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		opts...,
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%s: %w", op, ErrTokenExpired)
		}

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	return &models.Identity{
		ID:          claims.UserID,
		DisplayName: claims.Name,
		AvatarURL:   claims.Picture,
		Email:       claims.Email,
	}, nil
}
