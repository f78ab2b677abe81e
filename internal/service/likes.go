package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
)

// ToggleLike переключает лайк пользователя: есть в LikedBy — убирает, нет — добавляет.
// LikeCount всегда пересчитывается хранилищем как len(LikedBy).
// Два вызова подряд одним пользователем взаимно гасятся.
func (s *Service) ToggleLike(ctx context.Context, ideaID string, user *models.Identity) (*models.Idea, error) {
	const op = "service/likes/ToggleLike"

	ideaID = strings.TrimSpace(ideaID)
	lg := log.From(ctx).With("op", op, "idea_id", ideaID)

	if !authenticated(user) {
		lg.Warn("unauthenticated")
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if ideaID == "" {
		lg.Warn("invalid argument: empty id")
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidArgument)
	}

	idea, err := s.mutate(ctx, op, ideaID, func(idea *models.Idea) (models.IdeaUpdate, error) {
		liked := toggle(idea.LikedBy, user.ID)
		return models.IdeaUpdate{LikedBy: &liked}, nil
	})
	if err != nil {
		return nil, err
	}

	lg.Info("like toggled", "user_id", user.ID, "liked", idea.LikedByUser(user.ID), "likes", idea.LikeCount)
	s.syncMirror(ctx, idea)

	return idea, nil
}

// toggle возвращает новое множество: без userID, если он был, иначе с ним в конце.
// Дубликаты userID во входе тоже удаляются.
func toggle(likedBy []string, userID string) []string {
	out := make([]string, 0, len(likedBy)+1)
	found := false

	for _, id := range likedBy {
		if id == userID {
			found = true
			continue
		}
		out = append(out, id)
	}

	if !found {
		out = append(out, userID)
	}

	return out
}
