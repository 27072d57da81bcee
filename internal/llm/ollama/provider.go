package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/llm"
)

// DefaultModel is used when no model is configured
const DefaultModel = "gpt-oss:20b"

// Provider implements llm.Provider for Ollama
type Provider struct {
	host         string
	defaultModel string
	client       *http.Client
}

// NewProvider creates a new Ollama provider
func NewProvider(host, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = DefaultModel
	}
	return &Provider{
		host:         strings.TrimRight(host, "/"),
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 300 * time.Second},
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "ollama"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"gpt-oss:20b",
		"llama3.1",
		"llama3.2",
		"mistral",
		"qwen2.5",
		"gemma2",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.host != ""
}

type chatRequest struct {
	Model    string         `json:"model"`
	Messages []llm.Message  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  map[string]any `json:"options,omitempty"`
}

type chatResponse struct {
	Message         llm.Message `json:"message"`
	Done            bool        `json:"done"`
	EvalCount       int         `json:"eval_count"`
	PromptEvalCount int         `json:"prompt_eval_count"`
}

// Chat sends the conversation to /api/chat and returns the reply
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	messages := req.Messages
	if req.System != "" {
		messages = append([]llm.Message{{Role: llm.RoleSystem, Content: req.System}}, messages...)
	}

	body, err := json.Marshal(chatRequest{
		Model:    model,
		Messages: messages,
		Stream:   false,
		Options: map[string]any{
			"num_predict": 4096, // thinking models spend tokens before answering
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.host+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &llm.Response{
		Content:    out.Message.Content,
		Model:      model,
		TokensUsed: out.EvalCount + out.PromptEvalCount,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
