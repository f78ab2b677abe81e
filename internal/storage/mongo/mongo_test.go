package mongo

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
	"github.com/campanha-inteligente/ideas-wall/internal/models"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
)

// testTimeout — общий дедлайн на операции с БД в тестах.
const testTimeout = 10 * time.Second

// TestMain поднимает MongoDB в контейнере один раз на пакет (только при GO_TEST_INTEGRATION).
// Адрес контейнера кладётся в DATABASE_URL; каждый тест работает в своей БД.
func TestMain(m *testing.M) {
	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "mongo:7.0",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForLog("Waiting for connections").WithStartupTimeout(90 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start mongo testcontainer: %v\n", err)
		os.Exit(1)
	}

	host, err := mongoC.Host(ctx)
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get container host: %v\n", err)
		os.Exit(1)
	}

	port, err := mongoC.MappedPort(ctx, "27017/tcp")
	if err != nil {
		_ = mongoC.Terminate(ctx)
		fmt.Fprintf(os.Stderr, "failed to get mapped port: %v\n", err)
		os.Exit(1)
	}

	_ = os.Setenv("DATABASE_URL", fmt.Sprintf("mongodb://%s:%s", host, port.Port()))

	code := m.Run()

	_ = mongoC.Terminate(context.Background())
	os.Exit(code)
}

func mustNewMongo(t *testing.T) *Mongo {
	t.Helper()

	if os.Getenv("GO_TEST_INTEGRATION") == "" {
		t.Skip("set GO_TEST_INTEGRATION=1 to run MongoDB tests")
	}

	base := os.Getenv("DATABASE_URL")
	cfg := &config.Config{DB: config.DBConfig{URL: base + "/ideas_test_" + uuid.NewString()[:8]}}

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	m, err := New(ctx, cfg)
	require.NoError(t, err, "DATABASE_URL=%s", cfg.DB.URL)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
		defer cancel()
		_ = m.db.Drop(ctx)
		_ = m.Close(ctx)
	})

	return m
}

func TestDatabaseFromURI(t *testing.T) {
	tests := []struct {
		uri  string
		want string
	}{
		{"mongodb://localhost:27017", defaultDBName},
		{"mongodb://localhost:27017/", defaultDBName},
		{"mongodb://user:pw@localhost:27017/wall?authSource=admin", "wall"},
		{"::bad::", defaultDBName},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, databaseFromURI(tt.uri), tt.uri)
	}
}

func TestCommentDocs_RoundTrip(t *testing.T) {
	now := time.Date(2025, 4, 1, 12, 0, 0, 123456789, time.UTC)
	tree := []models.Comment{
		{ID: 1, AuthorID: "u1", AuthorName: "Ana", Body: "oi", CreatedAt: now, Replies: []models.Comment{
			{ID: 2, AuthorName: "Anônimo", Body: "olá", CreatedAt: now},
		}},
	}

	got := fromCommentDocs(toCommentDocs(tree))

	require.Equal(t, "Anônimo", got[0].Replies[0].AuthorName)
	require.Empty(t, got[0].Replies[0].AuthorID)
	require.Equal(t, now.Truncate(time.Millisecond), got[0].CreatedAt)
	require.NotNil(t, got[0].Replies[0].Replies)
}

func TestCreateAndReadIdea(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	created, err := m.CreateIdea(ctx, models.Idea{
		AuthorID:    "u-a",
		AuthorName:  "Ana",
		AuthorEmail: "ana@example.com",
		Location:    "Rio de Janeiro, Brasil",
		Body:        "Hortas urbanas nos telhados",
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.EqualValues(t, 1, created.Version)
	require.Zero(t, created.LikeCount)
	require.Empty(t, created.Comments)

	got, err := m.IdeaByID(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created.Body, got.Body)
	require.Equal(t, "ana@example.com", got.AuthorEmail)

	all, err := m.Ideas(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	_, err = m.IdeaByID(ctx, "deadbeef")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateIdea_VersionCAS(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	created, err := m.CreateIdea(ctx, models.Idea{AuthorID: "u-a", AuthorName: "Ana", Location: "a, b", Body: "0123456789"})
	require.NoError(t, err)

	liked := []string{"u-b"}
	tree := []models.Comment{{ID: 10, AuthorName: "Caio", Body: "Boa", Replies: []models.Comment{{ID: 11, AuthorName: "Duda", Body: "Sim"}}}}

	updated, err := m.UpdateIdea(ctx, created.ID, 1, models.IdeaUpdate{LikedBy: &liked, Comments: &tree})
	require.NoError(t, err)
	require.EqualValues(t, 2, updated.Version)
	require.Equal(t, 1, updated.LikeCount)
	require.Len(t, updated.Comments[0].Replies, 1)

	_, err = m.UpdateIdea(ctx, created.ID, 1, models.IdeaUpdate{LikedBy: &liked})
	require.ErrorIs(t, err, storage.ErrConflict)

	_, err = m.UpdateIdea(ctx, "65e0a0c9fd2f000000000000", 1, models.IdeaUpdate{})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDeleteIdea(t *testing.T) {
	m := mustNewMongo(t)

	ctx, cancel := context.WithTimeout(context.Background(), testTimeout)
	defer cancel()

	created, err := m.CreateIdea(ctx, models.Idea{AuthorID: "u-a", Location: "a, b", Body: "0123456789"})
	require.NoError(t, err)

	require.NoError(t, m.DeleteIdea(ctx, created.ID))
	require.ErrorIs(t, m.DeleteIdea(ctx, created.ID), storage.ErrNotFound)
}
