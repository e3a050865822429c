package credstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const defaultMongoCollection = "monetized_credentials"

// MongoOption configures a MongoStore.
type MongoOption func(*MongoStore)

// WithCollectionName sets the MongoDB collection name. Default: "monetized_credentials".
func WithCollectionName(name string) MongoOption {
	return func(s *MongoStore) {
		s.collectionName = name
	}
}

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	collection     *mongo.Collection
	collectionName string
}

// NewMongoStore creates a MongoDB-backed credential store.
// It creates a unique index on name on initialization.
func NewMongoStore(ctx context.Context, db *mongo.Database, opts ...MongoOption) (*MongoStore, error) {
	s := &MongoStore{
		collectionName: defaultMongoCollection,
	}
	for _, opt := range opts {
		opt(s)
	}
	if !validIdentifier.MatchString(s.collectionName) {
		return nil, fmt.Errorf("invalid collection name %q: must match [a-zA-Z_][a-zA-Z0-9_]*", s.collectionName)
	}
	if db == nil {
		return nil, errors.New("mongo database is required")
	}
	s.collection = db.Collection(s.collectionName)

	_, err := s.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("create indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) Get(ctx context.Context, name string) (*Credential, error) {
	var c Credential
	err := s.collection.FindOne(ctx, bson.M{"name": name}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("get credential: %w", err)
	}
	return &c, nil
}

func (s *MongoStore) Put(ctx context.Context, cred Credential) (*Credential, error) {
	if cred.Name == "" {
		return nil, ErrInvalidCredential
	}
	now := time.Now()
	filter := bson.M{"name": cred.Name}
	update := bson.M{
		"$set": bson.M{
			"license_key": cred.LicenseKey,
			"tier":        cred.Tier,
			"endpoint":    cred.Endpoint,
			"updated_at":  now,
		},
		"$setOnInsert": bson.M{
			"created_at": now,
		},
	}

	// ReturnDocument=After keeps created_at from the stored document.
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	var result Credential
	if err := s.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&result); err != nil {
		return nil, fmt.Errorf("put credential: %w", err)
	}
	return &result, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"name": name}); err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context) ([]Credential, error) {
	cursor, err := s.collection.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list credentials: %w", err)
	}
	var creds []Credential
	if err := cursor.All(ctx, &creds); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return creds, nil
}

func (s *MongoStore) Close(_ context.Context) error {
	return nil // user manages the mongo.Database lifecycle
}
