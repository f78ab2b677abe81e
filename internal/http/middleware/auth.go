package middleware

import (
	"net/http"
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
	logctx "github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
)

// TokenParser проверяет сессионный токен.
type TokenParser interface {
	Parse(token string) (*models.Identity, error)
}

// Authenticate читает Bearer-токен и кладёт пользователя в контекст (auth.WithIdentity).
//   - заголовка нет или он не Bearer — запрос анонимный;
//   - токен есть, но не проходит проверку — 401.
func Authenticate(tokens TokenParser) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const prefix = "Bearer "

			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, prefix) {
				next.ServeHTTP(w, r)
				return
			}

			token := strings.TrimSpace(header[len(prefix):])
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := tokens.Parse(token)
			if err != nil {
				logctx.From(r.Context()).Debug("bearer rejected", "err", err)
				apierrors.WriteError(w, r, err)
				return
			}

			ctx := auth.WithIdentity(r.Context(), id)
			ctx = logctx.With(ctx, "user_id", id.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
