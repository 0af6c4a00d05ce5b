package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plateshare/plateshare/internal/model"
)

// RequestStore is the slice of the repository the request handler needs.
type RequestStore interface {
	ListRequestsByFood(ctx context.Context, foodID string) ([]model.Document, error)
	ListRequestsByRequester(ctx context.Context, email string) ([]model.Document, error)
	InsertRequest(ctx context.Context, doc model.Document) (string, error)
	UpdateRequestStatus(ctx context.Context, id, status string) (int64, error)
	DeleteRequest(ctx context.Context, id string) (int64, error)
}

// RequestHandler handles food request endpoints.
type RequestHandler struct {
	store  RequestStore
	logger *slog.Logger
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(store RequestStore, logger *slog.Logger) *RequestHandler {
	return &RequestHandler{store: store, logger: logger}
}

// ListByFood handles GET /food-req/{foodId}: every request made against
// one listing. A food ID matching nothing, dangling ones included, is an
// empty array, not a 404.
func (h *RequestHandler) ListByFood(w http.ResponseWriter, r *http.Request) {
	foodID := chi.URLParam(r, "foodId")

	requests, err := h.store.ListRequestsByFood(r.Context(), foodID)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// MyRequests handles GET /my-requests?email=...
func (h *RequestHandler) MyRequests(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	requests, err := h.store.ListRequestsByRequester(r.Context(), email)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

// Create handles POST /food-req.
func (h *RequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.store.InsertRequest(r.Context(), doc)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("request_created", "request_id", id)

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": id})
}

// UpdateStatus handles PATCH /food-req/{id}. Status values are free text;
// the server stores whatever the caller sends.
func (h *RequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modified, err := h.store.UpdateRequestStatus(r.Context(), id, body.Status)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	if modified > 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Request %s", body.Status),
		})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": "Request not found",
	})
}

// Delete handles DELETE /food-req/{id}.
func (h *RequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.DeleteRequest(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("request_deleted", "request_id", id, "deleted_count", deleted)

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
