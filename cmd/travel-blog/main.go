package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pribylovaa/travel-blog/internal/app"
	"github.com/pribylovaa/travel-blog/internal/config"
	"github.com/pribylovaa/travel-blog/internal/store"
	gwhttp "github.com/pribylovaa/travel-blog/internal/transport/http"
	"github.com/pribylovaa/travel-blog/internal/transport/http/middleware"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	loadDotenv()

	cfg := config.MustLoad(configPath)

	logger := setupLogger(cfg.Env, cfg.Log)
	slog.SetDefault(logger)
	logger.Info("starting travel-blog", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer rootCancel()

	a, err := app.New(rootCtx, cfg, logger,
		app.WithRegisterer(prometheus.DefaultRegisterer),
		app.WithNotifier(countingNotifier(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		logger.Error("app_init_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if cerr := a.Close(); cerr != nil {
			logger.Warn("app_close_failed", slog.String("err", cerr.Error()))
		}
	}()

	// Восстановление сессии, сохранённой прошлым запуском.
	authed := a.Auth().CheckAuth(log.Into(rootCtx, logger))
	logger.Info("session_restored", slog.Bool("authenticated", authed))

	apiHandler := gwhttp.NewRouter(a, gwhttp.Options{
		Logger:         logger,
		Timeout:        cfg.Timeouts.Request,
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Metrics:        middleware.NewMetrics(prometheus.DefaultRegisterer),
	})

	var ready int32 // 0 — not ready; 1 — ready

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}

		http.Error(w, "not ready", http.StatusServiceUnavailable)
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
		logger.Error("http_listen_failed", slog.String("addr", httpAddr), slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger.Info("http_listen_start", slog.String("addr", httpAddr))

	serveErrCh := make(chan error, 1)
	go func() {
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)
	logger.Info("gateway_ready")

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			logger.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http_shutdown_incomplete", slog.String("err", err.Error()))
	} else {
		logger.Info("http_stopped")
	}

	logger.Info("service_stopped")
}

// countingNotifier пишет уведомления сторов в лог и считает их по виду (info/destructive).
func countingNotifier(reg prometheus.Registerer) store.Notifier {
	shown := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "travelblog",
		Subsystem: "store",
		Name:      "notifications_total",
		Help:      "Notifications raised by client stores.",
	}, []string{"kind"})
	reg.MustRegister(shown)

	return store.NotifierFunc(func(ctx context.Context, n store.Notification) {
		kind := "info"
		if n.Destructive {
			kind = "destructive"
		}
		shown.WithLabelValues(kind).Inc()

		store.LogNotifier{}.Notify(ctx, n)
	})
}

// loadDotenv подхватывает .env (DOTENV_PATH или ./.env) до чтения конфигурации.
// Отсутствие файла не ошибка: переменные могут прийти из окружения.
func loadDotenv() {
	path := os.Getenv("DOTENV_PATH")
	if path == "" {
		path = ".env"
	}

	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("dotenv_load_failed", slog.String("path", path), slog.String("err", err.Error()))
	}
}

func setupLogger(env string, cfg config.LogConfig) *slog.Logger {
	var out io.Writer = os.Stdout
	if cfg.File != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
		})
	}

	switch env {
	case envLocal:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envDev:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
