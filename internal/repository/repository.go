// Package repository provides the document store access layer. Each
// resource wraps one collection behind thin find/insert/update/delete
// operations; indexing, pooling and retries are left to the driver.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/plateshare/plateshare/internal/model"
)

// Collection names.
const (
	usersCollection    = "users"
	foodsCollection    = "foods"
	requestsCollection = "food_request"
)

// Common errors for repository operations.
var (
	// ErrInvalidID means the given identifier is not a valid document ID.
	ErrInvalidID = errors.New("invalid document id")
	// ErrDuplicateEmail means a user with that email already exists.
	ErrDuplicateEmail = errors.New("user email already exists")
)

// Repository provides document store access methods.
type Repository struct {
	client   *mongo.Client
	db       *mongo.Database
	users    *mongo.Collection
	foods    *mongo.Collection
	requests *mongo.Collection
}

// New connects to the store and verifies the connection. The client is
// created once at startup and shared by all requests.
func New(ctx context.Context, uri, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to store: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping store: %w", err)
	}

	db := client.Database(dbName)
	return &Repository{
		client:   client,
		db:       db,
		users:    db.Collection(usersCollection),
		foods:    db.Collection(foodsCollection),
		requests: db.Collection(requestsCollection),
	}, nil
}

// EnsureIndexes creates the indexes the API relies on. The unique index on
// users.email makes first-sign-in races lose cleanly instead of inserting
// duplicates.
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: model.FieldEmail, Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	return nil
}

// Ping checks store connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, readpref.Primary())
}

// Close disconnects from the store.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// objectID parses a path identifier into a store ID.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

// decodeAll drains a cursor into a document slice. Always returns a
// non-nil slice so empty results serialize as [] rather than null.
func decodeAll(ctx context.Context, cursor *mongo.Cursor) ([]model.Document, error) {
	docs := []model.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode documents: %w", err)
	}
	return docs, nil
}

// insertedID renders a driver-assigned ID as a string.
func insertedID(result *mongo.InsertOneResult) string {
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprintf("%v", result.InsertedID)
}
