package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Timeout — общий бюджет запроса шлюза, включая все вызовы к API за ним.
// Уже заданный дедлайн не переопределяется; d <= 0 отключает мидлвар.
// Исчерпанный бюджет фиксируется записью gateway_deadline_exceeded.
func Timeout(d time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		if d <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))

			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.From(ctx).Warn("gateway_deadline_exceeded",
					slog.String("method", r.Method),
					slog.String("route", routeOf(r)),
					slog.Duration("budget", d),
					slog.Duration("elapsed", time.Since(start)),
				)
			}
		})
	}
}
