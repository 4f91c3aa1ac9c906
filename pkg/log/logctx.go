// Package log — логгер и идентификатор запроса в context.Context.
//
// Шлюз кладёт request-scoped логгер в контекст входящего запроса; сторы,
// сервис и HTTP-клиент API достают его через From, поэтому все записи одного
// запроса UI (включая исходящие вызовы к API) несут общий request_id.
package log

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// Into кладёт логгер в контекст. nil не записывается.
func Into(ctx context.Context, l *slog.Logger) context.Context {
	if l == nil {
		return ctx
	}

	return context.WithValue(ctx, ctxKey{}, l)
}

// From — логгер из контекста. Без него берётся slog.Default(), дополненный
// request_id, если тот уже лежит в контексте (вызовы вне мидлвара Logging).
func From(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}

	if rid := RequestID(ctx); rid != "" {
		return slog.Default().With(slog.String("request_id", rid))
	}

	return slog.Default()
}

// With дополняет логгер из контекста атрибутами и кладёт результат обратно.
func With(ctx context.Context, args ...any) (context.Context, *slog.Logger) {
	l := From(ctx).With(args...)
	return Into(ctx, l), l
}
