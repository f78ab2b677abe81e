package log

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// Тесты меняют slog.Default(), поэтому t.Parallel() не используем.

func newSilent() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func useDefault(t *testing.T, l *slog.Logger) {
	t.Helper()
	old := slog.Default()
	slog.SetDefault(l)
	t.Cleanup(func() { slog.SetDefault(old) })
}

// TestFrom_DefaultWhenEmpty — пустой контекст отдаёт slog.Default().
func TestFrom_DefaultWhenEmpty(t *testing.T) {
	def := newSilent()
	useDefault(t, def)

	require.Equal(t, def, From(context.Background()))
}

// TestInto_RoundTripAndShadowing — Into/From 1:1, дочерний контекст перекрывает родителя.
func TestInto_RoundTripAndShadowing(t *testing.T) {
	parentL, childL := newSilent(), newSilent()

	parent := Into(context.Background(), parentL)
	child := Into(parent, childL)

	require.Equal(t, parentL, From(parent))
	require.Equal(t, childL, From(child))
}

// TestFrom_IgnoresNilLogger — *slog.Logger(nil) под нашим ключом не ломает From.
func TestFrom_IgnoresNilLogger(t *testing.T) {
	def := newSilent()
	useDefault(t, def)

	var nilLogger *slog.Logger
	ctx := context.WithValue(context.Background(), loggerKey{}, nilLogger)

	require.Equal(t, def, From(ctx))
}

// TestWith_AddsAttributes — атрибуты из With попадают в каждую запись.
func TestWith_AddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := With(Into(context.Background(), base), "request_id", "rid-1")
	From(ctx).Info("hello")

	require.Contains(t, buf.String(), "request_id=rid-1")
	require.Contains(t, buf.String(), "msg=hello")
}

// TestWith_NoArgsKeepsContext — без аргументов контекст не меняется.
func TestWith_NoArgsKeepsContext(t *testing.T) {
	ctx := Into(context.Background(), newSilent())
	require.Equal(t, ctx, With(ctx))
}
