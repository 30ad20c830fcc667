package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/jasanvivian/solepos/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// Machine-readable error kinds returned alongside the human message.
const (
	kindInvalidInput      = "invalid_input"
	kindNotFound          = "not_found"
	kindInsufficientStock = "insufficient_stock"
	kindConflict          = "conflict"
)

// storeError maps store error kinds to HTTP statuses, keeping the wrapped
// message as the human-readable part.
func storeError(w http.ResponseWriter, err error) {
	var status int
	var kind string
	switch {
	case errors.Is(err, store.ErrInvalidInput):
		status, kind = http.StatusBadRequest, kindInvalidInput
	case errors.Is(err, store.ErrNotFound):
		status, kind = http.StatusNotFound, kindNotFound
	case errors.Is(err, store.ErrInsufficientStock):
		status, kind = http.StatusBadRequest, kindInsufficientStock
	case errors.Is(err, store.ErrConflict):
		status, kind = http.StatusConflict, kindConflict
	default:
		slog.Error("store operation failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	jsonResponse(w, status, map[string]string{"error": err.Error(), "kind": kind})
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}
