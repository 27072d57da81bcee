package llm

import "context"

// Message roles understood by every provider
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged turn sent to a provider
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest contains chat completion parameters
type ChatRequest struct {
	// System is an optional instruction sent ahead of Messages
	System   string
	Messages []Message
}

// Response contains LLM generation result
type Response struct {
	Content    string
	Model      string
	TokensUsed int
	LatencyMs  int64
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider identifier
	Name() string

	// AvailableModels returns list of supported models
	AvailableModels() []string

	// DefaultModel returns the default model
	DefaultModel() string

	// IsConfigured checks if provider has valid credentials
	IsConfigured() bool

	// Chat generates the next assistant message for an ordered conversation
	Chat(ctx context.Context, req ChatRequest, model string) (*Response, error)
}
