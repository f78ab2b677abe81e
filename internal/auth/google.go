package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

// googleUser — ответ OpenID Connect userinfo.
type googleUser struct {
	Sub     string `json:"sub"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// GoogleProvider — вход через Google OAuth 2.0 (authorization code).
type GoogleProvider struct {
	oauth       *oauth2.Config
	userInfoURL string
	client      *http.Client
}

// NewGoogleProvider собирает провайдер из конфигурации. client == nil -> http.DefaultClient.
func NewGoogleProvider(cfg config.GoogleConfig, client *http.Client) *GoogleProvider {
	if client == nil {
		client = http.DefaultClient
	}

	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Scopes:       cfg.Scopes,
			RedirectURL:  cfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		userInfoURL: cfg.UserInfoURL,
		client:      client,
	}
}

func (g *GoogleProvider) AuthCodeURL(state string) string {
	return g.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

func (g *GoogleProvider) Identify(ctx context.Context, code string) (*models.Identity, error) {
	const op = "auth/google/Identify"

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client)

	tok, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: exchange: %w: %w", op, ErrProvider, err)
	}

	var user googleUser
	resp, err := resty.NewWithClient(g.oauth.Client(ctx, tok)).R().
		SetContext(ctx).
		SetResult(&user).
		Get(g.userInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%s: userinfo: %w: %w", op, ErrProvider, err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("%s: userinfo status %d: %w", op, resp.StatusCode(), ErrProvider)
	}

	if user.Sub == "" {
		return nil, fmt.Errorf("%s: userinfo without sub: %w", op, ErrProvider)
	}

	name := strings.TrimSpace(user.Name)
	if name == "" {
		name, _, _ = strings.Cut(user.Email, "@")
	}

	return &models.Identity{
		ID:          user.Sub,
		DisplayName: name,
		AvatarURL:   user.Picture,
		Email:       user.Email,
	}, nil
}
