package auth

import (
	"context"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

type identityKey struct{}

// WithIdentity кладёт пользователя запроса в контекст.
func WithIdentity(ctx context.Context, id *models.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom — пользователь запроса или nil (аноним).
func IdentityFrom(ctx context.Context) *models.Identity {
	id, _ := ctx.Value(identityKey{}).(*models.Identity)
	return id
}
