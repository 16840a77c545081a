package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sagarc03/postbox"
	postboxhttp "github.com/sagarc03/postbox/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeDetail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var body postboxhttp.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body.Detail
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"invalid credentials", postbox.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
		{"invalid token", postbox.ErrInvalidToken, http.StatusUnauthorized, "Invalid token"},
		{"missing token", postboxhttp.ErrMissingToken, http.StatusUnauthorized, "Missing token"},
		{"not found", postbox.ErrNotFound, http.StatusNotFound, "Not found"},
		{"unsupported type", postbox.ErrUnsupportedType, http.StatusBadRequest, "Unsupported content_type"},
		{"invalid key", postbox.ErrInvalidKey, http.StatusBadRequest, "Invalid key"},
		{"invalid input", postbox.ErrInvalidInput, http.StatusBadRequest, "Invalid request"},
		{"conflict", postbox.ErrConflict, http.StatusConflict, "Conflict"},
		{"wrapped not found", fmt.Errorf("get post: %w", postbox.ErrNotFound), http.StatusNotFound, "Not found"},
		{"unknown", errors.New("connection refused to 10.0.0.5"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			postboxhttp.HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantDetail, decodeDetail(t, rec))
		})
	}
}

func TestHandleError_UnauthorizedSetsChallenge(t *testing.T) {
	rec := httptest.NewRecorder()

	postboxhttp.HandleError(rec, postbox.ErrInvalidToken)

	assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
}

func TestHandleError_InternalDoesNotLeak(t *testing.T) {
	rec := httptest.NewRecorder()

	postboxhttp.HandleError(rec, errors.New("pq: password authentication failed for user admin"))

	assert.NotContains(t, rec.Body.String(), "admin")
	assert.Empty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	err := postboxhttp.WriteJSON(rec, http.StatusCreated, map[string]bool{"ok": true})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
