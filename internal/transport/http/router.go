// Package http — локальный HTTP-шлюз для UI поверх сторов приложения.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/travel-blog/internal/app"
	"github.com/pribylovaa/travel-blog/internal/transport/http/handlers"
	"github.com/pribylovaa/travel-blog/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger         *slog.Logger
	Timeout        time.Duration
	BasePath       string // например, "/api"; если пустой — роуты регистрируются на корне.
	MaxUploadBytes int64
	Metrics        *middleware.Metrics // nil — без метрик входящих запросов.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(a *app.App, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Metrics != nil {
		root.Use(opts.Metrics.Middleware())
	}
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(a, opts.MaxUploadBytes)

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
	r.Post("/auth/login", h.Login)
	r.Post("/auth/register", h.Register)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.Session)
	r.Get("/auth/me", h.Me)

	// articles
	r.Get("/articles", h.ListArticles)
	r.Get("/articles/state", h.ArticlesState)
	r.Post("/articles/more", h.LoadMoreArticles)
	r.Put("/articles/filters", h.ApplyFilters)
	r.Delete("/articles/filters", h.ClearFilters)
	r.Post("/articles", h.CreateArticle)
	r.Put("/articles/{id}", h.UpdateArticle)    // id — documentId
	r.Delete("/articles/{id}", h.DeleteArticle) // id — documentId

	// comments (id — числовой id статьи)
	r.Get("/articles/{id}/comments", h.ListComments)
	r.Post("/articles/{id}/comments", h.CreateComment)
	r.Delete("/articles/{id}/comments/cache", h.ClearCommentsCache)
	r.Put("/comments/{documentID}", h.UpdateComment)
	r.Delete("/comments/{documentID}", h.DeleteComment)

	// categories
	r.Get("/categories", h.ListCategories)
	r.Post("/categories", h.CreateCategory)
	r.Put("/categories/{documentID}", h.UpdateCategory)
	r.Delete("/categories/{documentID}", h.DeleteCategory)

	// uploads
	r.Post("/uploads", h.UploadFile)
}
