package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	apierrors "github.com/pribylovaa/travel-blog/internal/transport/http/errors"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

var errHandlerPanic = errors.New("gateway handler panic")

// Recover перехватывает panic обработчика шлюза: пишет gateway_panic со стеком
// и маршрутом chi, клиенту отдаёт 500/internal без деталей.
// Если ответ уже начат, тело не дописывается. http.ErrAbortHandler пробрасывается дальше.
func Recover() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := newStatusWriter(w)

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []slog.Attr{
					slog.String("method", r.Method),
					slog.String("route", routeOf(r)),
					slog.Any("reason", rec),
					slog.String("stack", string(debug.Stack())),
				}
				// Снаружи RequestID идентификатор есть только в заголовке.
				if log.RequestID(r.Context()) == "" {
					attrs = append(attrs, slog.String("request_id", r.Header.Get("X-Request-Id")))
				}
				log.From(r.Context()).LogAttrs(r.Context(), slog.LevelError, "gateway_panic", attrs...)

				if sw.status != 0 {
					return
				}

				sw.Header().Set("Connection", "close")
				apierrors.WriteError(sw, r, errHandlerPanic)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
