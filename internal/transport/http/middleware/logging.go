package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Logging кладёт request-scoped логгер в контекст и пишет одну запись "http" на запрос.
func Logging(l *slog.Logger) Middleware {
	if l == nil {
		l = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := log.Into(r.Context(), l)
			if rid := log.RequestID(ctx); rid != "" {
				ctx, _ = log.With(ctx, slog.String("request_id", rid))
			}
			reqLogger := log.From(ctx)
			r = r.WithContext(ctx)

			sw := newStatusWriter(w)
			start := time.Now()
			next.ServeHTTP(sw, r)

			reqLogger.LogAttrs(r.Context(), slog.LevelInfo, "http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", sw.Status()),
				slog.Duration("dur", time.Since(start)),
				slog.Int("bytes", sw.count),
			)
		})
	}
}
