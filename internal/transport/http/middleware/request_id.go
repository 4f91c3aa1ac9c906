package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

const headerRequestID = "X-Request-Id"

// RequestID обеспечивает наличие X-Request-Id:
//  1. читает заголовок X-Request-Id, если есть;
//  2. иначе генерирует uuid;
//  3. кладёт id в Response Header, Request Header и в контекст (pkg/log),
//     откуда его забирает исходящий HTTP-клиент к API.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(headerRequestID)
			if id == "" {
				id = uuid.NewString()
				// добавим в запрос — чтобы errors.WriteError мог его забрать.
				r.Header.Set(headerRequestID, id)
			}
			w.Header().Set(headerRequestID, id)

			next.ServeHTTP(w, r.WithContext(log.IntoRequestID(r.Context(), id)))
		})
	}
}
