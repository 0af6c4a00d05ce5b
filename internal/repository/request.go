package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/plateshare/plateshare/internal/model"
)

// ListRequestsByFood returns every request referencing the given food ID.
// The reference is by value: a food ID that matches nothing, including a
// dangling one, yields an empty slice.
func (r *Repository) ListRequestsByFood(ctx context.Context, foodID string) ([]model.Document, error) {
	cursor, err := r.requests.Find(ctx, bson.M{model.FieldFoodID: foodID})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests by food: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// ListRequestsByRequester returns every request made by the given email.
func (r *Repository) ListRequestsByRequester(ctx context.Context, email string) ([]model.Document, error) {
	cursor, err := r.requests.Find(ctx, bson.M{model.FieldRequesterEmail: email})
	if err != nil {
		return nil, fmt.Errorf("failed to list requests by requester: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// InsertRequest inserts a new food request and returns the assigned ID.
func (r *Repository) InsertRequest(ctx context.Context, doc model.Document) (string, error) {
	result, err := r.requests.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert request: %w", err)
	}
	return insertedID(result), nil
}

// UpdateRequestStatus sets the status field of a request and reports how
// many documents changed.
func (r *Repository) UpdateRequestStatus(ctx context.Context, id, status string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := r.requests.UpdateOne(ctx,
		bson.M{model.FieldID: oid},
		bson.M{"$set": bson.M{model.FieldStatus: status}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update request status: %w", err)
	}
	return result.ModifiedCount, nil
}

// DeleteRequest deletes a request by ID and reports how many documents
// were removed.
func (r *Repository) DeleteRequest(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := r.requests.DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete request: %w", err)
	}
	return result.DeletedCount, nil
}
