package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names
const (
	usersCollection    = "users"
	messagesCollection = "chat_messages"
	tripsCollection    = "trips"
)

// DB wraps a connected MongoDB database
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens the configured database and ensures its indexes
func Connect(ctx context.Context, cfg config.MongoConfig) (*DB, error) {
	clientOpts := options.Client().ApplyURI(cfg.URI)
	if cfg.ConnectTimeout > 0 {
		clientOpts.SetConnectTimeout(cfg.ConnectTimeout)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	db := &DB{client: client, db: client.Database(cfg.Database)}
	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return db, nil
}

// Close disconnects the client
func (d *DB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return d.client.Disconnect(ctx)
}

// Ping verifies connectivity
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, nil)
}

func (d *DB) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "email_lower", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		messagesCollection: {
			{Keys: bson.D{{Key: "uid", Value: 1}, {Key: "ts", Value: -1}}},
		},
		tripsCollection: {
			{Keys: bson.D{{Key: "uid", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := d.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", name, err)
		}
	}
	return nil
}
