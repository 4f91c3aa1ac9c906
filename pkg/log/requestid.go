package log

import "context"

type requestIDKey struct{}

// IntoRequestID сохраняет идентификатор запроса в контексте.
// Пустое значение не записывается.
func IntoRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}

	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID возвращает идентификатор запроса из контекста или "".
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}

	return ""
}
