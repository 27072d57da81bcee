package postgres

import (
	"context"
	"fmt"
	"slices"

	"github.com/Rrens/mika-travel/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

// MessageRepository implements domain.MessageRepository
type MessageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

// Append inserts a chat message for a user
func (r *MessageRepository) Append(ctx context.Context, uid string, message domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, role, content, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.pool.Exec(ctx, query, uid, string(message.Role), message.Content, message.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// ListRecent retrieves the newest messages of a user in chronological order
func (r *MessageRepository) ListRecent(ctx context.Context, uid string, limit int) ([]domain.ChatMessage, error) {
	query := `
		SELECT role, content, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, uid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []domain.ChatMessage
	for rows.Next() {
		var (
			m    domain.ChatMessage
			role string
		)
		if err := rows.Scan(&role, &m.Content, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		m.Role = domain.MessageRole(role)
		m.Timestamp = m.Timestamp.UTC()
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	slices.Reverse(messages)
	return messages, nil
}
