package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/plateshare/plateshare/internal/model"
)

// FindUserByEmail looks up a user by email. Returns (nil, nil) when no
// user exists; absence is not an error.
func (r *Repository) FindUserByEmail(ctx context.Context, email string) (model.Document, error) {
	var doc model.Document
	err := r.users.FindOne(ctx, bson.M{model.FieldEmail: email}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}
	return doc, nil
}

// InsertUser inserts a new user document and returns the assigned ID.
// A unique-index violation on email maps to ErrDuplicateEmail, so two
// concurrent sign-ins with the same email cannot both insert.
func (r *Repository) InsertUser(ctx context.Context, doc model.Document) (string, error) {
	result, err := r.users.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateEmail
		}
		return "", fmt.Errorf("failed to insert user: %w", err)
	}
	return insertedID(result), nil
}
