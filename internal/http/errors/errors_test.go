package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/campanha-inteligente/ideas-wall/internal/auth"
	"github.com/campanha-inteligente/ideas-wall/internal/notify"
	"github.com/campanha-inteligente/ideas-wall/internal/service"
	"github.com/campanha-inteligente/ideas-wall/internal/validate"
)

func TestToHTTP_BaseMapping(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("service/op: %w", err) }

	tcs := []struct {
		name       string
		in         error
		wantStatus int
		wantCode   string
	}{
		{"invalid_argument", wrap(service.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"signup_invalid", wrap(notify.ErrInvalidArgument), http.StatusBadRequest, "invalid_argument"},
		{"bad_request", ErrBadRequest, http.StatusBadRequest, "invalid_argument"},
		{"invalid_state", wrap(auth.ErrInvalidState), http.StatusBadRequest, "invalid_state"},
		{"token_expired", wrap(auth.ErrTokenExpired), http.StatusUnauthorized, "token_expired"},
		{"invalid_token", wrap(auth.ErrInvalidToken), http.StatusUnauthorized, "unauthenticated"},
		{"unauth", wrap(service.ErrUnauthenticated), http.StatusUnauthorized, "unauthenticated"},
		{"perm_denied", wrap(service.ErrPermissionDenied), http.StatusForbidden, "permission_denied"},
		{"parent_not_found", wrap(service.ErrParentNotFound), http.StatusNotFound, "parent_not_found"},
		{"not_found", wrap(service.ErrNotFound), http.StatusNotFound, "not_found"},
		{"comment_not_found", wrap(service.ErrCommentNotFound), http.StatusNotFound, "not_found"},
		{"conflict", wrap(service.ErrConflict), http.StatusConflict, "conflict"},
		{"canceled", wrap(context.Canceled), StatusClientClosedRequest, "canceled"},
		{"deadline", wrap(context.DeadlineExceeded), http.StatusGatewayTimeout, "deadline_exceeded"},
		{"provider", wrap(auth.ErrProvider), http.StatusBadGateway, "provider_error"},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable, "unavailable"},
		{"internal", wrap(service.ErrInternal), http.StatusInternalServerError, "internal"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "internal"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			gotStatus, resp := ToHTTP(tc.in)
			require.Equal(t, tc.wantStatus, gotStatus)
			require.Equal(t, tc.wantCode, resp.Error.Code)
			require.NotEmpty(t, resp.Error.Message)
		})
	}
}

func TestToHTTP_NilError_Returns500Internal(t *testing.T) {
	gotStatus, resp := ToHTTP(nil)
	require.Equal(t, http.StatusInternalServerError, gotStatus)
	require.Equal(t, "internal", resp.Error.Code)
	require.Equal(t, "internal error", resp.Error.Message)
}

func TestToHTTP_ValidationFields(t *testing.T) {
	verr := &validate.Error{Fields: map[string]string{"city": "city deve estar no formato \"Cidade, Estado\""}}
	err := fmt.Errorf("service/ideas/CreateIdea: %w: %w", service.ErrInvalidArgument, verr)

	status, resp := ToHTTP(err)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, verr.Fields, resp.Error.Fields)
}

func TestWriteError_RequestID(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ideas/x", nil)
	req.Header.Set("X-Request-Id", "rid-1")

	WriteError(rr, req, fmt.Errorf("op: %w", service.ErrNotFound))

	require.Equal(t, http.StatusNotFound, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var env ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "not_found", env.Error.Code)
	require.Equal(t, "rid-1", env.Error.RequestID)
	require.Empty(t, env.Error.Fields)
}
