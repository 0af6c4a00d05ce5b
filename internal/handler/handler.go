// Package handler provides HTTP request handlers. Each handler translates
// one route into a single store call and maps the result onto the wire
// shapes the original clients expect.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plateshare/plateshare/internal/repository"
)

// Handler serves the routes that have no resource behind them.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Hello is the root banner route.
// GET /
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Plate Share server is running",
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"message": "resource not found",
	})
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"message": "method not allowed",
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes the `{message: ...}` shape used across the API.
func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeStoreError maps a repository failure onto the wire. A malformed
// identifier gets a 400; everything else is the generic 500 the original
// returned for any store fault.
func writeStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, repository.ErrInvalidID) {
		writeMessage(w, http.StatusBadRequest, "invalid id")
		return
	}
	logger.Error("store operation failed", "error", err)
	writeMessage(w, http.StatusInternalServerError, "Internal Server Error")
}
