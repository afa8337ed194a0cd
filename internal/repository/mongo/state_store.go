package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"liftlog/workout-tracker/internal/repository"
)

// DefaultStateCollection holds one document per named record.
const DefaultStateCollection = "app_state"

// stateDocument is the stored shape of a named record.
type stateDocument struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// mongoStateStore implements repository.StateStore
type mongoStateStore struct {
	collection *mongo.Collection
}

// NewMongoStateStore creates a state store backed by the given collection.
func NewMongoStateStore(collection *mongo.Collection) repository.StateStore {
	return &mongoStateStore{collection: collection}
}

// NewMongoStateStoreFromDB uses DefaultStateCollection when name is empty.
func NewMongoStateStoreFromDB(db *mongo.Database, name string) repository.StateStore {
	if name == "" {
		name = DefaultStateCollection
	}
	return NewMongoStateStore(db.Collection(name))
}

// Get retrieves the bytes stored under key.
func (s *mongoStateStore) Get(ctx context.Context, key string) ([]byte, error) {
	var doc stateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": key}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("mongo get %s: %w", key, err)
	}
	return doc.Data, nil
}

// Put replaces the whole record, inserting it when absent.
func (s *mongoStateStore) Put(ctx context.Context, key string, data []byte) error {
	doc := stateDocument{Key: key, Data: data, UpdatedAt: time.Now().UTC()}
	opts := options.Replace().SetUpsert(true)
	if _, err := s.collection.ReplaceOne(ctx, bson.M{"_id": key}, doc, opts); err != nil {
		return fmt.Errorf("%w: mongo put %s: %v", repository.ErrWriteFailed, key, err)
	}
	return nil
}

// Delete removes the record. Deleting a missing key matches zero documents and succeeds.
func (s *mongoStateStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("%w: mongo delete %s: %v", repository.ErrWriteFailed, key, err)
	}
	return nil
}
