// Package memory — хранилище идей в памяти процесса (db.driver=memory, тесты).
// Данные живут до перезапуска; все чтения и записи отдают/принимают глубокие копии.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
)

// Storage — потокобезопасная реализация storage.Storage.
type Storage struct {
	mu    sync.RWMutex
	ideas map[string]models.Idea
	last  time.Time
	now   func() time.Time
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		ideas: make(map[string]models.Idea),
		now:   time.Now,
	}
}

// nextTime — монотонное время создания с точностью до миллисекунды.
// Вызывать под s.mu.
func (s *Storage) nextTime() time.Time {
	t := s.now().UTC().Truncate(time.Millisecond)
	if !t.After(s.last) {
		t = s.last.Add(time.Millisecond)
	}
	s.last = t

	return t
}

func (s *Storage) CreateIdea(_ context.Context, idea models.Idea) (*models.Idea, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idea = idea.Clone()
	idea.ID = uuid.NewString()
	idea.CreatedAt = s.nextTime()
	idea.Version = 1

	if idea.LikedBy == nil {
		idea.LikedBy = []string{}
	}
	if idea.Comments == nil {
		idea.Comments = []models.Comment{}
	}
	idea.LikeCount = len(idea.LikedBy)

	s.ideas[idea.ID] = idea

	out := idea.Clone()
	return &out, nil
}

func (s *Storage) Ideas(_ context.Context) ([]models.Idea, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Idea, 0, len(s.ideas))
	for _, idea := range s.ideas {
		out = append(out, idea.Clone())
	}

	return out, nil
}

func (s *Storage) IdeaByID(_ context.Context, id string) (*models.Idea, error) {
	const op = "storage/memory/IdeaByID"

	s.mu.RLock()
	defer s.mu.RUnlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	out := idea.Clone()
	return &out, nil
}

func (s *Storage) UpdateIdea(_ context.Context, id string, expectedVersion int64, upd models.IdeaUpdate) (*models.Idea, error) {
	const op = "storage/memory/UpdateIdea"

	s.mu.Lock()
	defer s.mu.Unlock()

	idea, ok := s.ideas[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	if idea.Version != expectedVersion {
		return nil, fmt.Errorf("%s: %w", op, storage.ErrConflict)
	}

	// Применяем к копии, чтобы не разделять срезы с вызывающим.
	next := idea.Clone()
	if upd.LikedBy != nil {
		next.LikedBy = append([]string{}, (*upd.LikedBy)...)
	}
	if upd.Comments != nil {
		next.Comments = models.Idea{Comments: *upd.Comments}.Clone().Comments
		if next.Comments == nil {
			next.Comments = []models.Comment{}
		}
	}

	next.LikeCount = len(next.LikedBy)
	next.Version++

	s.ideas[id] = next

	out := next.Clone()
	return &out, nil
}

func (s *Storage) DeleteIdea(_ context.Context, id string) error {
	const op = "storage/memory/DeleteIdea"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ideas[id]; !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	delete(s.ideas, id)

	return nil
}

func (s *Storage) Close(context.Context) error { return nil }
