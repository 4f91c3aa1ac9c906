package apiclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

const HeaderRequestID = "X-Request-Id"

// Middleware — обёртка над http.RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc — адаптер функции к http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// Chain оборачивает rt в mws: первый элемент выполняется первым.
func Chain(rt http.RoundTripper, mws ...Middleware) http.RoundTripper {
	for i := len(mws) - 1; i >= 0; i-- {
		rt = mws[i](rt)
	}

	return rt
}

// RequestID — проставляет X-Request-Id: из заголовка, из контекста (pkg/log) или новый uuid.
// Идентификатор также кладётся в контекст запроса для последующих обёрток.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			rid := r.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = log.RequestID(r.Context())
			}
			if rid == "" {
				rid = uuid.NewString()
			}

			r2 := r.Clone(log.IntoRequestID(r.Context(), rid))
			r2.Header.Set(HeaderRequestID, rid)

			return next.RoundTrip(r2)
		})
	}
}

// UserAgent — проставляет User-Agent, если он задан и ещё не выставлен вызывающим.
func UserAgent(ua string) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if ua == "" {
			return next
		}

		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get("User-Agent") != "" {
				return next.RoundTrip(r)
			}

			r2 := r.Clone(r.Context())
			r2.Header.Set("User-Agent", ua)

			return next.RoundTrip(r2)
		})
	}
}

// Timeout навешивает таймаут d на вызов, если у контекста ещё нет дедлайна.
//
// Контракт:
//  1. d <= 0 — запрос уходит без изменений;
//  2. у контекста уже есть deadline — он не переопределяется;
//  3. иначе контекст отменяется при закрытии тела ответа (или сразу при ошибке),
//     чтобы чтение тела укладывалось в тот же дедлайн.
func Timeout(d time.Duration) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		if d <= 0 {
			return next
		}

		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if _, ok := r.Context().Deadline(); ok {
				return next.RoundTrip(r)
			}

			ctx, cancel := context.WithTimeout(r.Context(), d)
			resp, err := next.RoundTrip(r.WithContext(ctx))
			if err != nil {
				cancel()
				return nil, err
			}

			resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}

			return resp, nil
		})
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// Logging — одна итоговая запись на исходящий вызов: msg="upstream_call", code, dur.
// Не логирует тела и заголовок Authorization.
func Logging(base *slog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()

			l := base
			if l == nil {
				l = log.From(r.Context())
			}

			rid := r.Header.Get(HeaderRequestID)
			if rid == "" {
				rid = log.RequestID(r.Context())
			}

			l = l.With(
				slog.String("request_id", rid),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
			)

			resp, err := next.RoundTrip(r.WithContext(log.Into(r.Context(), l)))
			if err != nil {
				l.Warn("upstream_call",
					slog.String("code", "transport_error"),
					slog.String("err", err.Error()),
					slog.Duration("dur", time.Since(start)),
				)
				return nil, err
			}

			l.Info("upstream_call",
				slog.Int("code", resp.StatusCode),
				slog.Duration("dur", time.Since(start)),
			)

			return resp, nil
		})
	}
}
