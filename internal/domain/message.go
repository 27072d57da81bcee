package domain

import (
	"context"
	"time"
)

// MessageRole represents the sender of a message
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// Valid reports whether r is one of the known roles
func (r MessageRole) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

// ChatMessage is a single immutable chat turn.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}

// MessageRepository defines the interface for per-user chat history storage
type MessageRepository interface {
	Append(ctx context.Context, uid string, message ChatMessage) error
	// ListRecent returns at most limit messages in chronological order.
	ListRecent(ctx context.Context, uid string, limit int) ([]ChatMessage, error)
}
