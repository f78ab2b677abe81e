package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/campanha-inteligente/ideas-wall/internal/http/handlers"
	"github.com/campanha-inteligente/ideas-wall/internal/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	BasePath       string // например, "/api"; если пустой — роуты регистрируются на корне.
	AllowedOrigins []string
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
// tokens проверяет Bearer-токены; запросы без токена проходят анонимно.
func NewRouter(h *handlers.Handlers, tokens middleware.TokenParser, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),
		middleware.RequestID(), // до логирования, чтобы request_id попал в логгер
		middleware.Logging(opts.Logger),
		middleware.Metrics(),
		cors.Handler(cors.Options{
			AllowedOrigins:   opts.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
			ExposedHeaders:   []string{"X-Request-Id"},
			AllowCredentials: false,
			MaxAge:           300,
		}),
		middleware.Authenticate(tokens),
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout))
	}

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// auth
	r.Get("/auth/google/login", h.GoogleLogin)
	r.Get("/auth/google/callback", h.GoogleCallback)
	r.Get("/auth/me", h.Me)

	// ideas
	r.Get("/ideas", h.ListIdeas)
	r.Post("/ideas", h.CreateIdea)
	r.Get("/ideas/{id}", h.GetIdea)
	r.Delete("/ideas/{id}", h.RemoveIdea)
	r.Post("/ideas/{id}/like", h.ToggleLike)

	// comments
	r.Post("/ideas/{id}/comments", h.AddComment)
	r.Delete("/ideas/{id}/comments/{comment_id}", h.RemoveComment)

	// таблица и форма кампании
	r.Post("/mirror/ideas", h.MirrorIdea)
	r.Post("/signup", h.Signup)
}
