package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Rrens/smartchat/internal/domain"
)

const connectTimeout = 10 * time.Second

type stateDocument struct {
	ID        string    `bson:"_id"`
	Namespace string    `bson:"namespace"`
	Key       string    `bson:"key"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// KVStore keeps one document per (namespace, key) in a collection
type KVStore struct {
	client     *mongo.Client
	collection *mongo.Collection
	namespace  string
}

// Connect opens a client for uri and selects database.collection
func Connect(ctx context.Context, uri, database, collection, namespace string) (*KVStore, error) {
	if uri == "" {
		return nil, fmt.Errorf("mongo store requires a uri")
	}

	clientOpts := options.Client().ApplyURI(uri).SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	return &KVStore{
		client:     client,
		collection: client.Database(database).Collection(collection),
		namespace:  namespace,
	}, nil
}

func (s *KVStore) docID(key string) string {
	return s.namespace + ":" + key
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var doc stateDocument
	err := s.collection.FindOne(ctx, bson.M{"_id": s.docID(key)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", domain.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return doc.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	doc := stateDocument{
		ID:        s.docID(key),
		Namespace: s.namespace,
		Key:       key,
		Value:     value,
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := s.collection.DeleteOne(ctx, bson.M{"_id": s.docID(key)}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *KVStore) Close() error {
	return s.client.Disconnect(context.Background())
}
