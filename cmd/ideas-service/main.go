package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	"github.com/campanha-inteligente/ideas-wall/internal/config"
	ideashttp "github.com/campanha-inteligente/ideas-wall/internal/http"
	"github.com/campanha-inteligente/ideas-wall/internal/http/handlers"
	"github.com/campanha-inteligente/ideas-wall/internal/mirror"
	"github.com/campanha-inteligente/ideas-wall/internal/notify"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
	"github.com/campanha-inteligente/ideas-wall/internal/sheets"
	"github.com/campanha-inteligente/ideas-wall/internal/storage"
	"github.com/campanha-inteligente/ideas-wall/internal/storage/memory"
	ismongo "github.com/campanha-inteligente/ideas-wall/internal/storage/mongo"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting ideas-service", "env", cfg.Env, "db_driver", cfg.DB.Driver)

	if err := run(cfg, log); err != nil {
		log.Error("service_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	log.Info("service_stopped")
}

// run поднимает зависимости и HTTP-сервер и блокируется до сигнала остановки.
// Ресурсы, открытые до ошибки, закрываются отложенными вызовами.
func run(cfg *config.Config, log *slog.Logger) error {
	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	store, err := openStorage(rootCtx, cfg)
	if err != nil {
		return fmt.Errorf("storage open: %w", err)
	}
	defer func() {
		if cerr := store.Close(context.Background()); cerr != nil {
			log.Warn("storage_close_failed", slog.String("err", cerr.Error()))
		}
	}()
	log.Info("storage_ready")

	// Состояние OAuth: Redis, если задан, иначе память процесса (одна реплика).
	var states auth.StateStore
	if cfg.Redis.URL != "" {
		rctx, rcancel := context.WithTimeout(rootCtx, 5*time.Second)
		states, err = auth.NewRedisStateStore(rctx, cfg.Redis.URL, cfg.Redis.Prefix)
		rcancel()
		if err != nil {
			return fmt.Errorf("redis connect: %w", err)
		}
	} else {
		log.Warn("redis_not_configured: oauth state kept in memory")
		states = auth.NewMemoryStateStore()
	}
	defer func() { _ = states.Close() }()

	tokens := auth.NewTokens(cfg.Auth)

	var authn *auth.Authenticator
	if cfg.Auth.Google.ClientID != "" {
		provider := auth.NewGoogleProvider(cfg.Auth.Google, &http.Client{Timeout: cfg.Timeouts.Service})
		authn = auth.NewAuthenticator(provider, states, tokens, cfg.Auth.StateTTL)
	} else {
		log.Warn("google_oauth_not_configured: login disabled")
	}

	// Таблица: прямой доступ к Google Sheets.
	var writer *sheets.Writer
	if cfg.Sheets.Enabled() {
		writer, err = openSheets(rootCtx, cfg.Sheets)
		if err != nil {
			return fmt.Errorf("sheets init: %w", err)
		}
		log.Info("sheets_ready", "ideas_sheet", cfg.Sheets.IdeasSheet)
	}

	// Зеркало идей: внешний эндпоинт приоритетнее прямой записи в таблицу.
	var mir service.Mirror
	switch {
	case cfg.Mirror.URL != "":
		mir = mirror.NewClient(cfg.Mirror.URL, cfg.Mirror.Timeout)
		log.Info("mirror_mode", "mode", "http")
	case writer != nil:
		mir = writer
		log.Info("mirror_mode", "mode", "sheets")
	default:
		log.Warn("mirror_disabled")
	}

	svc := service.New(store, mir, *cfg)
	log.Info("service_initialized")

	h := handlers.New(svc, authn, nil, nil, cfg.Auth.FrontendURL)
	if writer != nil {
		h.Rows = writer
	}

	var mailer notify.Mailer
	if cfg.SMTP.Enabled() {
		mailer = notify.NewSMTPMailer(cfg.SMTP)
	}
	switch {
	case writer != nil && mailer != nil:
		h.Signups = notify.New(writer, mailer, cfg.SMTP.AdminTo)
	case writer != nil:
		h.Signups = notify.New(writer, nil, cfg.SMTP.AdminTo)
	case mailer != nil:
		h.Signups = notify.New(nil, mailer, cfg.SMTP.AdminTo)
	default:
		log.Warn("signup_disabled: neither sheets nor smtp configured")
	}

	apiHandler := ideashttp.NewRouter(h, tokens, ideashttp.Options{
		Logger:         log,
		Timeout:        cfg.Timeouts.Service,
		BasePath:       cfg.HTTP.BasePath,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if atomic.LoadInt32(&ready) != 1 {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}

		// Mongo проверяем пингом; память всегда готова.
		if p, ok := store.(pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := p.Ping(ctx); err != nil {
				http.Error(w, "storage unavailable", http.StatusServiceUnavailable)
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", apiHandler)

	httpAddr := cfg.HTTP.Addr()
	httpSrv := &http.Server{
		Addr:              httpAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ln, err := net.Listen("tcp", httpAddr)
	if err != nil {
		return fmt.Errorf("http listen %s: %w", httpAddr, err)
	}
	log.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	log.Info("service_ready")

	var serveErr error
	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case serveErr = <-serveErrCh:
		if serveErr != nil {
			serveErr = fmt.Errorf("http serve: %w", serveErr)
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}

	// Дожидаемся уже запущенных синхронизаций зеркала.
	if err := svc.Wait(shutdownCtx); err != nil {
		log.Warn("mirror_sync_abandoned", slog.String("err", err.Error()))
	}

	return serveErr
}

func openStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	if cfg.DB.Driver == config.DriverMemory {
		return memory.New(), nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	m, err := ismongo.New(dbCtx, cfg)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func openSheets(ctx context.Context, cfg config.SheetsConfig) (*sheets.Writer, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, err
	}

	api, err := sheets.NewGoogle(ctx, cfg)
	if err != nil {
		return nil, err
	}

	w := sheets.NewWriter(api, cfg.IdeasSheet, cfg.SignupsSheet, loc)

	sctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := w.EnsureSheets(sctx); err != nil {
		return nil, err
	}

	return w, nil
}

func setupLogger(env string) *slog.Logger {
	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
