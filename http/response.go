package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sagarc03/postbox"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, detail string) {
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Detail: detail}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, postbox.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, postbox.ErrInvalidToken):
		WriteError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, ErrMissingToken):
		WriteError(w, http.StatusUnauthorized, "Missing token")
	case errors.Is(err, postbox.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, postbox.ErrUnsupportedType):
		WriteError(w, http.StatusBadRequest, "Unsupported content_type")
	case errors.Is(err, postbox.ErrInvalidKey):
		WriteError(w, http.StatusBadRequest, "Invalid key")
	case errors.Is(err, postbox.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, postbox.ErrConflict):
		WriteError(w, http.StatusConflict, "Conflict")
	default:
		slog.Error("request error", "error", err)
		WriteError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// handlePostError is HandleError with the post-specific not found message.
func handlePostError(w http.ResponseWriter, err error) {
	if errors.Is(err, postbox.ErrNotFound) {
		WriteError(w, http.StatusNotFound, "Post not found")
		return
	}
	HandleError(w, err)
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
