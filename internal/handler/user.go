package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/plateshare/plateshare/internal/model"
	"github.com/plateshare/plateshare/internal/repository"
)

// UserStore is the slice of the repository the user handler needs.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (model.Document, error)
	InsertUser(ctx context.Context, doc model.Document) (string, error)
}

// UserHandler handles user sign-in records.
type UserHandler struct {
	store  UserStore
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(store UserStore, logger *slog.Logger) *UserHandler {
	return &UserHandler{store: store, logger: logger}
}

// Create handles POST /users. A user document is inserted on first
// sign-in; repeat sign-ins with a known email get the already-exists
// message and insert nothing. The pre-check keeps the common path cheap;
// the unique index in the store settles concurrent first sign-ins.
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var doc model.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := doc.Email()
	if email == "" {
		writeMessage(w, http.StatusBadRequest, "email is required")
		return
	}

	existing, err := h.store.FindUserByEmail(r.Context(), email)
	if err != nil {
		writeStoreError(w, h.logger, err)
		return
	}
	if existing != nil {
		writeMessage(w, http.StatusOK, "user already exists.")
		return
	}

	id, err := h.store.InsertUser(r.Context(), doc)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			writeMessage(w, http.StatusOK, "user already exists.")
			return
		}
		writeStoreError(w, h.logger, err)
		return
	}

	h.logger.Info("user_created", "email", email)

	writeJSON(w, http.StatusOK, map[string]string{"insertedId": id})
}
