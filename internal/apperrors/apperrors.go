// Package apperrors — пользовательская таксономия ошибок клиента.
//
// Любая ошибка нижних слоёв (транспорт, ответ API) приводится через Categorize
// к *AppError с одним из типов ErrorType и человекочитаемым сообщением.
package apperrors

import (
	"errors"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
)

type ErrorType string

const (
	InvalidCredentials ErrorType = "invalid_credentials"
	UserExists         ErrorType = "user_exists"
	NetworkError       ErrorType = "network_error"
	ServerError        ErrorType = "server_error"
	ValidationError    ErrorType = "validation_error"
	UnknownError       ErrorType = "unknown_error"
)

const (
	msgNetwork        = "Unable to connect to server. Please check your internet connection."
	msgUnauthorized   = "Invalid login credentials"
	msgForbidden      = "Access denied. Please check your credentials."
	msgBadRequest     = "Please check your information and try again"
	msgServer         = "Server error. Please try again later."
	msgUnknown        = "An unexpected error occurred"
	msgVendorFallback = "An error occurred"
)

// Образцы для errors.Is(err, apperrors.ErrServer): сравнение идёт по типу.
var (
	ErrInvalidCredentials = &AppError{Type: InvalidCredentials}
	ErrUserExists         = &AppError{Type: UserExists}
	ErrNetwork            = &AppError{Type: NetworkError}
	ErrServer             = &AppError{Type: ServerError}
	ErrValidation         = &AppError{Type: ValidationError}
	ErrUnknown            = &AppError{Type: UnknownError}
)

// AppError — категоризированная ошибка. Err — исходная причина (может быть nil).
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func New(t ErrorType, message string) *AppError {
	return &AppError{Type: t, Message: message}
}

func (e *AppError) Error() string {
	if e.Message == "" {
		return string(e.Type)
	}

	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is — совпадение по типу ошибки.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	return ok && t.Type == e.Type
}

// Categorize приводит err к *AppError. Порядок правил:
//  1. nil -> nil; уже *AppError -> как есть;
//  2. транспортные ошибки (*url.Error, net.Error) -> NetworkError;
//  3. объект error в теле Strapi: ValidationError про identifier/password/credentials ->
//     InvalidCredentials, прочий ValidationError -> ValidationError, сообщение про email -> UserExists;
//  4. HTTP-статус: 401/403 -> InvalidCredentials, 400 -> ValidationError, 5xx шлюза -> ServerError;
//  5. иначе UnknownError с лучшим доступным сообщением.
func Categorize(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var apiErr *apiclient.APIError
	if !errors.As(err, &apiErr) {
		var ue *url.Error
		var ne net.Error
		if errors.As(err, &ue) || errors.As(err, &ne) {
			return &AppError{Type: NetworkError, Message: msgNetwork, Err: err}
		}

		return &AppError{Type: UnknownError, Message: Message(err, msgUnknown), Err: err}
	}

	if name, msg, ok := apiErr.VendorError(); ok {
		if msg == "" {
			msg = msgVendorFallback
		}
		lower := strings.ToLower(msg)

		switch {
		case name == "ValidationError" && containsAny(lower, "identifier", "password", "credentials"):
			return &AppError{Type: InvalidCredentials, Message: msg, Err: err}
		case name == "ValidationError":
			return &AppError{Type: ValidationError, Message: msg, Err: err}
		case strings.Contains(lower, "email"):
			return &AppError{Type: UserExists, Message: msg, Err: err}
		}
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		return &AppError{Type: InvalidCredentials, Message: msgUnauthorized, Err: err}
	case http.StatusForbidden:
		return &AppError{Type: InvalidCredentials, Message: msgForbidden, Err: err}
	case http.StatusBadRequest:
		return &AppError{Type: ValidationError, Message: msgBadRequest, Err: err}
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return &AppError{Type: ServerError, Message: msgServer, Err: err}
	}

	msg := apiErr.Message
	if msg == "" {
		msg = msgUnknown
	}

	return &AppError{Type: UnknownError, Message: msg, Err: err}
}

// Message — лучшее сообщение для пользователя:
// *AppError.Message, затем *APIError.Message, затем текст ошибки, затем fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return fallback
	}

	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}

	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if s := err.Error(); s != "" {
		return s
	}

	return fallback
}

// TypeOf — тип ошибки после категоризации.
func TypeOf(err error) ErrorType {
	if ae := Categorize(err); ae != nil {
		return ae.Type
	}

	return ""
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}

	return false
}
