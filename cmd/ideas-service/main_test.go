package main

import (
	"io"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campanha-inteligente/ideas-wall/internal/config"
)

func TestRun_ListenFailureReturnsError(t *testing.T) {
	busy, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer busy.Close()

	_, port, err := net.SplitHostPort(busy.Addr().String())
	require.NoError(t, err)

	cfg := &config.Config{Env: envLocal}
	cfg.DB.Driver = config.DriverMemory
	cfg.HTTP.Host = "127.0.0.1"
	cfg.HTTP.Port = port
	cfg.HTTP.BasePath = "/api"

	err = run(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
	require.Contains(t, err.Error(), "http listen")
}

func TestOpenStorage_MemoryDriver(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Driver = config.DriverMemory

	store, err := openStorage(t.Context(), cfg)
	require.NoError(t, err)
	require.NoError(t, store.Close(t.Context()))
}
