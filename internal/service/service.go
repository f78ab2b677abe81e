// service содержит бизнес-логику «стены идей»: идеи, лайки и дерево комментариев.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
	"github.com/campanha-inteligente/ideas-wall/internal/validate"
)

var (
	// ErrInvalidArgument — неверные входные данные (ValidationError).
	// Детали по полям доступны через errors.As(err, *validate.Error).
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUnauthenticated — операция требует входа.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrPermissionDenied — удалять может только автор (AuthorizationError).
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound — идея отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrParentNotFound — комментарий, на который отвечают, не найден ни на одном уровне.
	ErrParentNotFound = errors.New("parent comment not found")
	// ErrCommentNotFound — удаляемый комментарий не найден.
	ErrCommentNotFound = errors.New("comment not found")
	// ErrConflict — идею меняли параллельно дольше, чем позволяет число попыток.
	ErrConflict = errors.New("conflict")
	// ErrInternal — ошибка хранилища/сети (PersistenceError).
	ErrInternal = errors.New("internal")
)

// Mirror — best-effort зеркало идеи (таблица). Ошибки не влияют на результат операции.
type Mirror interface {
	SyncIdea(ctx context.Context, idea models.Idea) error
}

// Service — описывает бизнес-логику ideas-service.
type Service struct {
	storage   storage.Storage
	mirror    Mirror
	validator *validate.Validator
	cfg       config.Config

	now func() time.Time
	ids *idGenerator

	// Фоновые синхронизации зеркала: не больше одной на идею.
	pending    sync.WaitGroup
	mirrorMu   sync.Mutex
	mirrorNext map[string]mirrorJob
	mirrorBusy map[string]bool
}

// New создает новый экземпляр Service. mirror может быть nil — зеркалирование выключено.
func New(storage storage.Storage, mirror Mirror, cfg config.Config) *Service {
	now := time.Now

	return &Service{
		storage:   storage,
		mirror:    mirror,
		validator: validate.MustNew(),
		cfg:       cfg,
		now:       now,
		ids:       newIDGenerator(now),

		mirrorNext: make(map[string]mirrorJob),
		mirrorBusy: make(map[string]bool),
	}
}

// Wait блокируется до завершения уже запущенных синхронизаций зеркала
// либо до отмены ctx.
func (s *Service) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// authenticated — есть ли у вызывающего стабильный идентификатор.
func authenticated(id *models.Identity) bool {
	return id != nil && id.ID != ""
}
