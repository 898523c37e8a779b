package persistence

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/spec-kit/subscriber-service/internal/config"
)

// Mongo wraps the client and the preference collection handle.
type Mongo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongo connects to the store named by cfg.URL, which carries both the
// database and the collection in its path: mongodb://host/db/collection.
func NewMongo(ctx context.Context, cfg config.MongoConfig, logger *zap.Logger) (*Mongo, error) {
	parsed, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid mongo url: %w", err)
	}
	segments := strings.Split(strings.TrimPrefix(parsed.Path, "/"), "/")
	if len(segments) != 2 || segments[0] == "" || segments[1] == "" {
		return nil, fmt.Errorf("mongo url path must be /<db>/<collection>, got %q", parsed.Path)
	}
	dbName, collName := segments[0], segments[1]

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(
		fmt.Sprintf("mongodb://%s/%s", parsed.Host, dbName),
	))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logger.Info("connected to mongodb",
		zap.String("database", dbName),
		zap.String("collection", collName),
	)
	return &Mongo{
		client:     client,
		collection: client.Database(dbName).Collection(collName),
	}, nil
}

// Collection returns the preference collection handle.
func (m *Mongo) Collection() *mongo.Collection {
	if m == nil {
		return nil
	}
	return m.collection
}

// EnsureIndexes creates the unique index on the user key. Without it two
// concurrent creates for the same user could both succeed.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Ping verifies store connectivity.
func (m *Mongo) Ping(ctx context.Context) error {
	if m == nil || m.client == nil {
		return fmt.Errorf("mongo client not configured")
	}
	return m.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) {
	if m != nil && m.client != nil {
		_ = m.client.Disconnect(ctx)
	}
}
