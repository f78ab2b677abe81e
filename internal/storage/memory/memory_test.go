package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
)

func newIdea() models.Idea {
	return models.Idea{
		AuthorID:   "u-a",
		AuthorName: "Ana",
		Location:   "Rio de Janeiro, Brasil",
		Body:       "Hortas urbanas nos telhados",
		// Поля ниже хранилище обязано перезаписать.
		ID:        "client-chosen",
		Version:   42,
		LikeCount: 7,
	}
}

func TestCreateIdea_AssignsServerFields(t *testing.T) {
	s := New()
	ctx := context.Background()

	got, err := s.CreateIdea(ctx, newIdea())
	require.NoError(t, err)

	require.NotEqual(t, "client-chosen", got.ID)
	require.NotEmpty(t, got.ID)
	require.EqualValues(t, 1, got.Version)
	require.Zero(t, got.LikeCount)
	require.NotNil(t, got.LikedBy)
	require.NotNil(t, got.Comments)
	require.False(t, got.CreatedAt.IsZero())
}

func TestCreateIdea_MonotonicCreatedAt(t *testing.T) {
	s := New()
	fixed := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	a, err := s.CreateIdea(context.Background(), newIdea())
	require.NoError(t, err)
	b, err := s.CreateIdea(context.Background(), newIdea())
	require.NoError(t, err)

	require.True(t, b.CreatedAt.After(a.CreatedAt))
}

func TestIdeaByID_ReturnsCopies(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateIdea(ctx, newIdea())
	require.NoError(t, err)

	got, err := s.IdeaByID(ctx, created.ID)
	require.NoError(t, err)
	got.LikedBy = append(got.LikedBy, "intruder")

	again, err := s.IdeaByID(ctx, created.ID)
	require.NoError(t, err)
	require.Empty(t, again.LikedBy)

	_, err = s.IdeaByID(ctx, "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateIdea_CompareAndSet(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateIdea(ctx, newIdea())
	require.NoError(t, err)

	liked := []string{"u-b", "u-c"}
	updated, err := s.UpdateIdea(ctx, created.ID, created.Version, models.IdeaUpdate{LikedBy: &liked})
	require.NoError(t, err)
	require.Equal(t, 2, updated.LikeCount)
	require.EqualValues(t, 2, updated.Version)
	require.Empty(t, updated.Comments, "не заданное поле не трогаем")

	// Устаревшая версия.
	_, err = s.UpdateIdea(ctx, created.ID, created.Version, models.IdeaUpdate{LikedBy: &liked})
	require.ErrorIs(t, err, storage.ErrConflict)

	_, err = s.UpdateIdea(ctx, "missing", 1, models.IdeaUpdate{})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateIdea_ReplacesCommentsWhole(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateIdea(ctx, newIdea())
	require.NoError(t, err)

	tree := []models.Comment{{ID: 1, Body: "a", Replies: []models.Comment{{ID: 2, Body: "b"}}}}
	v2, err := s.UpdateIdea(ctx, created.ID, 1, models.IdeaUpdate{Comments: &tree})
	require.NoError(t, err)
	require.Len(t, v2.Comments[0].Replies, 1)

	// Мутация исходного среза не влияет на хранилище.
	tree[0].Replies[0].Body = "mutated"
	got, err := s.IdeaByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, "b", got.Comments[0].Replies[0].Body)

	empty := []models.Comment{}
	v3, err := s.UpdateIdea(ctx, created.ID, 2, models.IdeaUpdate{Comments: &empty})
	require.NoError(t, err)
	require.NotNil(t, v3.Comments)
	require.Empty(t, v3.Comments)
}

func TestDeleteIdea(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateIdea(ctx, newIdea())
	require.NoError(t, err)

	require.NoError(t, s.DeleteIdea(ctx, created.ID))
	require.ErrorIs(t, s.DeleteIdea(ctx, created.ID), storage.ErrNotFound)

	all, err := s.Ideas(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}
