package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/plateshare/plateshare/internal/model"
)

// featuredLimit caps the featured listing.
const featuredLimit = 6

// FoodStore is the slice of the repository the food handler needs.
type FoodStore interface {
	ListFoods(ctx context.Context, filter model.Document) ([]model.Document, error)
	FeaturedFoods(ctx context.Context, limit int64) ([]model.Document, error)
	AvailableFoods(ctx context.Context) ([]model.Document, error)
	GetFood(ctx context.Context, id string) (model.Document, error)
	InsertFood(ctx context.Context, doc model.Document) (string, error)
	UpdateFood(ctx context.Context, id string, fields model.Document) (int64, error)
	DeleteFood(ctx context.Context, id string) (int64, error)
}

// FoodHandler handles food listing endpoints.
type FoodHandler struct {
	store  FoodStore
	logger *slog.Logger
}

// NewFoodHandler creates a new FoodHandler.
func NewFoodHandler(store FoodStore, logger *slog.Logger) *FoodHandler {
	return &FoodHandler{store: store, logger: logger}
}

// Featured handles GET /featured-foods: available foods, largest quantity
// first, at most six.
func (h *FoodHandler) Featured(w http.ResponseWriter, r *http.Request) {
	foods, err := h.store.FeaturedFoods(r.Context(), featuredLimit)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// List handles GET /foods. With an email query parameter it returns that
// donor's listings; without one it returns everything.
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.Document{}
	if email := r.URL.Query().Get("email"); email != "" {
		filter[model.FieldDonorEmail] = email
	}

	foods, err := h.store.ListFoods(r.Context(), filter)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// Available handles GET /foods/availables.
func (h *FoodHandler) Available(w http.ResponseWriter, r *http.Request) {
	foods, err := h.store.AvailableFoods(r.Context())
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, foods)
}

// Get handles GET /foods/{id}. A missing document is not an error: the
// body is null with a 200, which is what the original clients expect.
func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	food, err := h.store.GetFood(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// Create handles POST /foods. The document shape is not validated; the
// caller stores whatever fields it likes.
func (h *FoodHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.store.InsertFood(r.Context(), doc)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("food_created", "food_id", id)

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": id})
}

// Update handles PATCH /foods/{id}: a partial field merge. Zero modified
// documents means the ID is unknown or nothing changed; either way the
// caller sees a 404.
func (h *FoodHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var fields model.Document
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modified, err := h.store.UpdateFood(r.Context(), id, fields)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	if modified > 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Food updated successfully",
		})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": "Food not found or no changes made",
	})
}

// UpdateStatus handles PATCH /foods/status/{id}. Only the food_status
// field is touched, whatever else the body carries.
func (h *FoodHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body struct {
		FoodStatus string `json:"food_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	modified, err := h.store.UpdateFood(r.Context(), id, model.Document{
		model.FieldFoodStatus: body.FoodStatus,
	})
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	if modified > 0 {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Food status updated",
		})
		return
	}
	writeJSON(w, http.StatusNotFound, map[string]any{
		"success": false,
		"message": "Food not found",
	})
}

// Delete handles DELETE /foods/{id}. Deleting an unknown ID is still a
// 200; the count tells the caller nothing was there.
func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	deleted, err := h.store.DeleteFood(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("food_deleted", "food_id", id, "deleted_count", deleted)

	writeJSON(w, http.StatusOK, map[string]int64{"deletedCount": deleted})
}
