package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/plateshare/plateshare/internal/model"
)

// ListFoods returns the foods matching the filter, in natural order.
// An empty filter returns the whole collection.
func (r *Repository) ListFoods(ctx context.Context, filter model.Document) ([]model.Document, error) {
	if filter == nil {
		filter = model.Document{}
	}

	cursor, err := r.foods.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// FeaturedFoods returns up to limit available foods, largest quantity first.
func (r *Repository) FeaturedFoods(ctx context.Context, limit int64) ([]model.Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: model.FieldFoodQuantity, Value: -1}}).
		SetLimit(limit)

	cursor, err := r.foods.Find(ctx, bson.M{model.FieldFoodStatus: model.StatusAvailable}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured foods: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// AvailableFoods returns every food with status Available.
func (r *Repository) AvailableFoods(ctx context.Context) ([]model.Document, error) {
	cursor, err := r.foods.Find(ctx, bson.M{model.FieldFoodStatus: model.StatusAvailable})
	if err != nil {
		return nil, fmt.Errorf("failed to list available foods: %w", err)
	}
	return decodeAll(ctx, cursor)
}

// GetFood looks up a food by ID. Returns (nil, nil) when no document
// exists; absence is not an error.
func (r *Repository) GetFood(ctx context.Context, id string) (model.Document, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	var doc model.Document
	err = r.foods.FindOne(ctx, bson.M{model.FieldID: oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get food: %w", err)
	}
	return doc, nil
}

// InsertFood inserts a new food document and returns the assigned ID.
// The document shape is not validated.
func (r *Repository) InsertFood(ctx context.Context, doc model.Document) (string, error) {
	result, err := r.foods.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to insert food: %w", err)
	}
	return insertedID(result), nil
}

// UpdateFood merges the given fields into the food document and reports
// how many documents changed. Zero means the ID does not exist or the new
// values equal the old ones; the store does not distinguish the two.
func (r *Repository) UpdateFood(ctx context.Context, id string, fields model.Document) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	// The store rejects updates to _id; strip it rather than fail the
	// whole request over a field the caller cannot change anyway.
	delete(fields, model.FieldID)

	result, err := r.foods.UpdateOne(ctx, bson.M{model.FieldID: oid}, bson.M{"$set": fields})
	if err != nil {
		return 0, fmt.Errorf("failed to update food: %w", err)
	}
	return result.ModifiedCount, nil
}

// DeleteFood deletes a food by ID and reports how many documents were
// removed. Deleting a missing ID is not an error; the count is just zero.
func (r *Repository) DeleteFood(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	result, err := r.foods.DeleteOne(ctx, bson.M{model.FieldID: oid})
	if err != nil {
		return 0, fmt.Errorf("failed to delete food: %w", err)
	}
	return result.DeletedCount, nil
}
