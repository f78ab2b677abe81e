package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/pkg/log"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
)

// mutateFunc строит обновление по свежему снимку идеи.
// Ошибка прерывает операцию без записи; возвращать нужно сервисные sentinel-ошибки.
type mutateFunc func(idea *models.Idea) (models.IdeaUpdate, error)

// mutate — read-modify-write всего документа идеи с compare-and-set по версии.
// При конфликте версия перечитывается и fn вызывается заново, не более cfg.Wall.MutationAttempts раз.
func (s *Service) mutate(ctx context.Context, op, ideaID string, fn mutateFunc) (*models.Idea, error) {
	lg := log.From(ctx).With("op", op, "idea_id", ideaID)

	attempts := s.cfg.Wall.MutationAttempts
	if attempts <= 0 {
		attempts = 1
	}

	for attempt := 1; ; attempt++ {
		idea, err := s.storage.IdeaByID(ctx, ideaID)
		if err != nil {
			return nil, s.storageErr(ctx, op, err)
		}

		upd, err := fn(idea)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		updated, err := s.storage.UpdateIdea(ctx, ideaID, idea.Version, upd)
		if err == nil {
			return updated, nil
		}

		if !errors.Is(err, storage.ErrConflict) {
			return nil, s.storageErr(ctx, op, err)
		}

		if attempt >= attempts {
			lg.Warn("concurrent modification, giving up", "attempts", attempt)
			return nil, fmt.Errorf("%s: %w", op, ErrConflict)
		}

		lg.Debug("concurrent modification, retrying", "attempt", attempt)
	}
}

// storageErr переводит ошибку хранилища в сервисную.
// Отмена/дедлайн контекста пробрасываются как есть, чтобы транспорт отличал их от сбоя БД.
func (s *Service) storageErr(ctx context.Context, op string, err error) error {
	lg := log.From(ctx).With("op", op)

	switch {
	case errors.Is(err, storage.ErrNotFound):
		lg.Warn("idea not found")
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	case errors.Is(err, storage.ErrConflict):
		lg.Warn("conflict")
		return fmt.Errorf("%s: %w", op, ErrConflict)
	case ctx.Err() != nil:
		lg.Warn("context done", "err", ctx.Err())
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
		lg.Error("storage error", "err", err)
		return fmt.Errorf("%s: %w", op, ErrInternal)
	}
}
