// auth реализует провайдер идентичности сайта:
// вход через Google OAuth (authorization code), одноразовые state и сессионные JWT.
//
// Основные аспекты:
//   - сервер не хранит сессии: идентичность пользователя целиком лежит в подписанном токене;
//   - state живёт в Redis (или в памяти процесса) и потребляется ровно один раз;
//   - ошибки ниже маппятся HTTP-слоем в 401/400/502.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/redact"
)

var (
	// ErrInvalidToken — токен некорректен по формату/подписи/issuer/audience. HTTP 401.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — срок действия токена истёк. HTTP 401.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidState — state неизвестен, истёк или уже использован. HTTP 400.
	ErrInvalidState = errors.New("invalid oauth state")
	// ErrProvider — провайдер отказал в обмене кода или в userinfo. HTTP 502.
	ErrProvider = errors.New("identity provider error")
)

// Provider — внешний провайдер идентичности.
type Provider interface {
	// AuthCodeURL — адрес страницы входа с переданным state.
	AuthCodeURL(state string) string
	// Identify обменивает код на токен провайдера и возвращает снимок пользователя.
	Identify(ctx context.Context, code string) (*models.Identity, error)
}

// Session — результат успешного входа.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Identity  models.Identity
}

// Authenticator связывает провайдер, хранилище state и выпуск токенов.
type Authenticator struct {
	provider Provider
	states   StateStore
	tokens   *Tokens
	stateTTL time.Duration
}

// NewAuthenticator создаёт Authenticator. stateTTL <= 0 -> 10 минут.
func NewAuthenticator(p Provider, states StateStore, tokens *Tokens, stateTTL time.Duration) *Authenticator {
	if stateTTL <= 0 {
		stateTTL = 10 * time.Minute
	}

	return &Authenticator{
		provider: p,
		states:   states,
		tokens:   tokens,
		stateTTL: stateTTL,
	}
}

// Tokens — выпуск/проверка сессионных токенов (для middleware).
func (a *Authenticator) Tokens() *Tokens { return a.tokens }

// Begin создаёт одноразовый state и возвращает адрес страницы входа провайдера.
func (a *Authenticator) Begin(ctx context.Context) (string, error) {
	const op = "auth/Begin"

	state := uuid.NewString()
	if err := a.states.Put(ctx, state, a.stateTTL); err != nil {
		log.From(ctx).Error("state store failed", "op", op, "err", err)
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return a.provider.AuthCodeURL(state), nil
}

// Complete потребляет state, получает пользователя у провайдера и выпускает сессию.
func (a *Authenticator) Complete(ctx context.Context, state, code string) (*Session, error) {
	const op = "auth/Complete"

	lg := log.From(ctx).With("op", op)

	if state == "" || code == "" {
		lg.Warn("empty state or code")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidState)
	}

	ok, err := a.states.Consume(ctx, state)
	if err != nil {
		lg.Error("state store failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !ok {
		lg.Warn("unknown or reused state")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidState)
	}

	id, err := a.provider.Identify(ctx, code)
	if err != nil {
		lg.Warn("provider identify failed", "code", redact.Token(), "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	token, exp, err := a.tokens.Issue(*id)
	if err != nil {
		lg.Error("token issue failed", "err", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	lg.Info("signed in", "user_id", id.ID, "email", redact.Email(id.Email))

	return &Session{Token: token, ExpiresAt: exp, Identity: *id}, nil
}
