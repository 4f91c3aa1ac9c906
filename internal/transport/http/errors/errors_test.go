package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/pribylovaa/travel-blog/internal/apiclient"
	"github.com/pribylovaa/travel-blog/internal/apperrors"
	"github.com/pribylovaa/travel-blog/internal/repository"
	"github.com/pribylovaa/travel-blog/internal/service"
	"github.com/pribylovaa/travel-blog/internal/store"
	"github.com/pribylovaa/travel-blog/internal/validation"
	"github.com/stretchr/testify/require"
)

func wrap(err error) error { return fmt.Errorf("store/x/Op: %w", err) }

func TestToHTTP_Mapping(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"no_token", wrap(service.ErrNoToken), http.StatusUnauthorized, "unauthenticated"},
		{"missing_document_id", wrap(service.ErrMissingDocumentID), http.StatusBadRequest, "invalid_argument"},
		{"service_invalid", wrap(service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"repo_invalid", wrap(repository.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"no_title", wrap(store.ErrNoArticleTitle), http.StatusBadRequest, "invalid_argument"},
		{"superseded", wrap(store.ErrSuperseded), http.StatusConflict, "superseded"},
		{"empty_upload", wrap(service.ErrEmptyUpload), http.StatusBadGateway, "upstream_error"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"invalid_credentials", wrap(apperrors.New(apperrors.InvalidCredentials, "Invalid login credentials")), http.StatusUnauthorized, "invalid_credentials"},
		{"user_exists", wrap(apperrors.New(apperrors.UserExists, "Email is already taken")), http.StatusConflict, "user_exists"},
		{"validation", wrap(apperrors.New(apperrors.ValidationError, "bad")), http.StatusBadRequest, "validation_error"},
		{"network", wrap(&url.Error{Op: "Get", URL: "http://x", Err: errors.New("refused")}), http.StatusBadGateway, "network_error"},
		{"server", wrap(&apiclient.APIError{Status: http.StatusServiceUnavailable}), http.StatusBadGateway, "server_error"},
		{"not_found", wrap(&apiclient.APIError{Status: http.StatusNotFound, Message: "Not Found"}), http.StatusNotFound, "not_found"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_UnknownDoesNotLeak(t *testing.T) {
	t.Parallel()

	_, resp := ToHTTP(errors.New("dial tcp 10.0.0.1: secret detail"))
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	t.Parallel()

	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_FieldErrors(t *testing.T) {
	t.Parallel()

	fe := validation.FieldErrors{"password": "Password is required"}
	gotStatus, resp := ToHTTP(fmt.Errorf("internal/app/Login: %w", fe))

	require.Equal(t, http.StatusBadRequest, gotStatus)
	require.Equal(t, "validation_failed", resp.Error.Code)
	require.Equal(t, map[string]string{"password": "Password is required"}, resp.Error.Fields)
}

func TestWriteError_SetsRequestID(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/articles", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	rr := httptest.NewRecorder()

	WriteError(rr, req, wrap(service.ErrNoToken))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var out ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
	require.Equal(t, "unauthenticated", out.Error.Code)
	require.Equal(t, "rid-1", out.Error.RequestID)
}
