package mongo

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type messageDoc struct {
	ID      primitive.ObjectID `bson:"_id,omitempty"`
	UID     string             `bson:"uid"`
	Role    string             `bson:"role"`
	Content string             `bson:"content"`
	TS      time.Time          `bson:"ts"`
}

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	coll *mongo.Collection
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{coll: db.db.Collection(messagesCollection)}
}

// Append inserts a chat message for a user
func (r *MessageRepository) Append(ctx context.Context, uid string, message domain.ChatMessage) error {
	_, err := r.coll.InsertOne(ctx, messageDoc{
		UID:     uid,
		Role:    string(message.Role),
		Content: message.Content,
		TS:      message.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest messages of a user in chronological order
func (r *MessageRepository) ListRecent(ctx context.Context, uid string, limit int) ([]domain.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "ts", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"uid": uid}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	var docs []messageDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(docs))
	for _, d := range docs {
		messages = append(messages, domain.ChatMessage{
			Role:      domain.MessageRole(d.Role),
			Content:   d.Content,
			Timestamp: d.TS.UTC(),
		})
	}

	slices.Reverse(messages)
	return messages, nil
}
