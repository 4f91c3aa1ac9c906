// errors стандартизирует ответы об ошибках локального шлюза.
// На вход он принимает ошибку сторов/сервиса/валидации,
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
//
// Пользовательские тексты берутся из таксономии apperrors: они и так
// предназначены для показа в UI.
package errors

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/repository"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/internal/store"
	"github.com/pribylovaa/travel-blog/internal/validation"
	"github.com/pribylovaa/travel-blog/pkg/log"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// Fields — ошибки формы по полям (только для validation_failed).
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и унифицированный ответ.
//
// Порядок:
//   - nil — программная ошибка вызова: 500/internal;
//   - ошибки формы (validation.FieldErrors) — 400/validation_failed с полями;
//   - сигнальные ошибки слоёв (нет токена, пустой documentId, устаревший ответ ...);
//   - отмена/дедлайн контекста — 499/504, 404 апстрима — 404;
//   - иначе тип из apperrors.Categorize; UnknownError — 500 без деталей.
func ToHTTP(err error) (int, ErrorResponse) {
	if err == nil {
		return http.StatusInternalServerError, resp("internal", "internal error")
	}

	var fe validation.FieldErrors
	if errors.As(err, &fe) {
		r := resp("validation_failed", "validation failed")
		r.Error.Fields = fe
		return http.StatusBadRequest, r
	}

	switch {
	case errors.Is(err, service.ErrNoToken):
		return http.StatusUnauthorized, resp("unauthenticated", "authentication required")
	case errors.Is(err, service.ErrMissingDocumentID),
		errors.Is(err, service.ErrInvalidArgument),
		errors.Is(err, repository.ErrInvalidArgument),
		errors.Is(err, store.ErrNoArticleTitle):
		return http.StatusBadRequest, resp("invalid_argument", "invalid argument")
	case errors.Is(err, store.ErrSuperseded):
		return http.StatusConflict, resp("superseded", "superseded by a newer request")
	case errors.Is(err, service.ErrEmptyUpload):
		return http.StatusBadGateway, resp("upstream_error", "invalid response from server")
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, resp("canceled", "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, resp("deadline_exceeded", "deadline exceeded")
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
		return http.StatusNotFound, resp("not_found", "not found")
	}

	ae := apperrors.Categorize(err)
	switch ae.Type {
	case apperrors.InvalidCredentials:
		return http.StatusUnauthorized, resp(string(ae.Type), ae.Message)
	case apperrors.UserExists:
		return http.StatusConflict, resp(string(ae.Type), ae.Message)
	case apperrors.ValidationError:
		return http.StatusBadRequest, resp(string(ae.Type), ae.Message)
	case apperrors.NetworkError:
		return http.StatusBadGateway, resp(string(ae.Type), ae.Message)
	case apperrors.ServerError:
		return http.StatusBadGateway, resp(string(ae.Type), ae.Message)
	default:
		return http.StatusInternalServerError, resp("internal", "internal error")
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
// Ошибки 5xx логируются с исходной причиной.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, out := ToHTTP(err)

	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		out.Error.RequestID = rid
	}

	if status >= http.StatusInternalServerError && err != nil {
		log.From(r.Context()).Error("request_failed",
			slog.String("path", r.URL.Path),
			slog.Int("status", status),
			slog.String("err", err.Error()),
		)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(out)
}

func resp(code, msg string) ErrorResponse {
	return ErrorResponse{Error: APIError{Code: code, Message: msg}}
}
