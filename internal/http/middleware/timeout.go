package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	apierrors "github.com/campanha-inteligente/ideas-wall/internal/http/errors"
	logctx "github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
)

// Timeout ограничивает запрос дедлайном d, если у контекста его ещё нет. d <= 0 — no-op.
// Обработчик, вернувшийся после дедлайна без ответа, получает за себя 504/deadline_exceeded.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r.WithContext(ctx))

			if sw.status == 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				logctx.From(ctx).Warn("request deadline exceeded", "path", r.URL.Path, "timeout", d)
				apierrors.WriteError(sw, r, ctx.Err())
			}
		})
	}
}
