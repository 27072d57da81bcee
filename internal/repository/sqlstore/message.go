package sqlstore

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/pocketbase/dbx"
)

type messageRow struct {
	ID        int64  `db:"id"`
	Role      string `db:"role"`
	Content   string `db:"content"`
	CreatedAt int64  `db:"created_at"`
}

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	db *DB
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db *DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append inserts a chat message for a user
func (r *MessageRepository) Append(ctx context.Context, uid string, message domain.ChatMessage) error {
	_, err := r.db.dbx.Insert("chat_messages", dbx.Params{
		"user_id":    uid,
		"role":       string(message.Role),
		"content":    message.Content,
		"created_at": message.Timestamp.UnixMilli(),
	}).WithContext(ctx).Execute()
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListRecent retrieves the newest messages of a user in chronological order
func (r *MessageRepository) ListRecent(ctx context.Context, uid string, limit int) ([]domain.ChatMessage, error) {
	var rows []messageRow
	err := r.db.dbx.Select("id", "role", "content", "created_at").
		From("chat_messages").
		Where(dbx.HashExp{"user_id": uid}).
		OrderBy("created_at DESC", "id DESC").
		Limit(int64(limit)).
		WithContext(ctx).
		All(&rows)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	messages := make([]domain.ChatMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, domain.ChatMessage{
			Role:      domain.MessageRole(row.Role),
			Content:   row.Content,
			Timestamp: time.UnixMilli(row.CreatedAt).UTC(),
		})
	}

	slices.Reverse(messages)
	return messages, nil
}
