package storage

import (
	"context"
	"errors"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
)

var (
	// ErrNotFound — идея отсутствует в хранилище.
	ErrNotFound = errors.New("not found")
	// ErrConflict — версия документа изменилась между чтением и записью.
	ErrConflict = errors.New("conflict")
)

// Storage — документное хранилище идей (коллекция "ideas").
// Документ хранится целиком: комментарии лежат внутри идеи деревом.
type Storage interface {
	// CreateIdea сохраняет новую идею одной атомарной записью.
	// Хранилище назначает ID, CreatedAt и Version=1; входные значения этих полей игнорируются.
	CreateIdea(ctx context.Context, idea models.Idea) (*models.Idea, error)

	// Ideas возвращает все идеи без гарантии порядка.
	Ideas(ctx context.Context) ([]models.Idea, error)

	// IdeaByID возвращает идею. Если записи нет — ErrNotFound.
	IdeaByID(ctx context.Context, id string) (*models.Idea, error)

	// UpdateIdea заменяет заданные в upd поля целиком, если текущая версия равна expectedVersion.
	// LikeCount пересчитывается из LikedBy. Version увеличивается на 1.
	// Ошибки: ErrNotFound — идеи нет; ErrConflict — версия не совпала.
	UpdateIdea(ctx context.Context, id string, expectedVersion int64, upd models.IdeaUpdate) (*models.Idea, error)

	// DeleteIdea удаляет документ вместе с деревом комментариев. Если записи нет — ErrNotFound.
	DeleteIdea(ctx context.Context, id string) error

	// Close закрывает соединения/ресурсы хранилища.
	Close(ctx context.Context) error
}
