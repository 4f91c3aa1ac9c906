// Package app — корневой контейнер клиента: собирает граф зависимостей
// (HTTP-клиент, репозитории, сессия, сервис, сторы) один раз на процесс.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/config"
	"github.com/pribylovaa/travel-blog/internal/repository/minio"
	"github.com/pribylovaa/travel-blog/internal/repository/strapi"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/internal/session"
	"github.com/pribylovaa/travel-blog/internal/session/file"
	"github.com/pribylovaa/travel-blog/internal/session/memory"
	"github.com/pribylovaa/travel-blog/internal/session/redis"
	"github.com/pribylovaa/travel-blog/internal/store"
)

// App — сторы и сервис, доступные слою представления.
type App struct {
	svc        *service.Service
	articles   *store.ArticleStore
	comments   *store.CommentStore
	categories *store.CategoryStore
	auth       *store.AuthStore

	closers []func() error
}

type options struct {
	notifier   store.Notifier
	registerer prometheus.Registerer
	httpClient *http.Client
}

type Option func(*options)

// WithNotifier — приёмник уведомлений сторов (по умолчанию store.LogNotifier).
func WithNotifier(n store.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithRegisterer — реестр метрик исходящих вызовов.
// По умолчанию используется отдельный реестр, не глобальный.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithHTTPClient — базовый http.Client для обращений к API.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) { o.httpClient = hc }
}

// New собирает приложение по конфигурации.
// При ошибке уже открытые ресурсы закрываются.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	const op = "internal/app/New"

	o := options{notifier: store.LogNotifier{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registerer == nil {
		o.registerer = prometheus.NewRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{}

	// Цепочка транспорта: request id -> user agent -> timeout -> metrics -> logging.
	metrics := apiclient.NewMetrics(o.registerer, basePath(cfg.API.BaseURL))
	clientOpts := []apiclient.Option{
		apiclient.WithMiddleware(
			apiclient.RequestID(),
			apiclient.UserAgent(cfg.API.UserAgent),
			apiclient.Timeout(cfg.API.Timeout),
			metrics.Middleware(),
			apiclient.Logging(logger),
		),
	}
	if o.httpClient != nil {
		clientOpts = append([]apiclient.Option{apiclient.WithHTTPClient(o.httpClient)}, clientOpts...)
	}

	client, err := apiclient.New(cfg.API.BaseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("%s: api client: %w", op, err)
	}

	repo := strapi.New(client, strapi.Limits{
		ArticlesPageSize:   cfg.Limits.ArticlesPageSize,
		CategoriesPageSize: cfg.Limits.CategoriesPageSize,
		CommentsPageSize:   cfg.Limits.CommentsPageSize,
		UploadMaxBytes:     cfg.Upload.MaxBytes,
	})
	repos := repo.Repositories()

	if cfg.Upload.Backend == config.UploadBackendS3 {
		uploads, err := minio.New(ctx, cfg.Upload)
		if err != nil {
			return nil, fmt.Errorf("%s: s3 uploads: %w", op, err)
		}

		repos.Uploads = uploads
	}

	cookies, err := a.cookieStore(ctx, cfg.Session)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	local, err := localStore(cfg.Session)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sessions := session.NewManager(cookies, local, cfg.Session.CookieTTL)

	a.svc = service.New(repos, sessions)
	a.articles = store.NewArticleStore(a.svc, o.notifier, cfg.Limits.ArticlesPageSize)
	a.comments = store.NewCommentStore(a.svc, o.notifier)
	a.categories = store.NewCategoryStore(a.svc)
	a.auth = store.NewAuthStore(a.svc, o.notifier)

	logger.Info("app_initialized",
		slog.String("api_base_url", cfg.API.BaseURL),
		slog.String("cookie_backend", cfg.Session.CookieBackend),
		slog.String("upload_backend", cfg.Upload.Backend),
		slog.Bool("persistent_local_storage", cfg.Session.LocalPath != ""),
	)

	return a, nil
}

func (a *App) cookieStore(ctx context.Context, cfg config.SessionConfig) (session.CookieStore, error) {
	if cfg.CookieBackend != config.CookieBackendRedis {
		return memory.NewCookieJar(), nil
	}

	rs, err := redis.New(ctx, cfg.RedisURL, cfg.RedisPrefix)
	if err != nil {
		return nil, fmt.Errorf("redis cookie store: %w", err)
	}

	a.closers = append(a.closers, rs.Close)

	return rs, nil
}

func localStore(cfg config.SessionConfig) (session.LocalStore, error) {
	if cfg.LocalPath == "" {
		return memory.NewLocalStorage(), nil
	}

	fs, err := file.New(cfg.LocalPath)
	if err != nil {
		return nil, fmt.Errorf("file local storage: %w", err)
	}

	return fs, nil
}

// basePath — путь базового URL API (для метки resource в метриках).
func basePath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	return u.Path
}

func (a *App) Service() *service.Service { return a.svc }

func (a *App) Articles() *store.ArticleStore { return a.articles }

func (a *App) Comments() *store.CommentStore { return a.comments }

func (a *App) Categories() *store.CategoryStore { return a.categories }

func (a *App) Auth() *store.AuthStore { return a.auth }

// Close освобождает внешние ресурсы (соединение с Redis).
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil

	return errors.Join(errs...)
}
