package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/samber/lo"
)

const defaultBaseURL = "https://api.anthropic.com/v1"

// Provider implements llm.Provider for Anthropic
type Provider struct {
	apiKey       string
	defaultModel string
	client       *http.Client
	baseURL      string
}

// NewProvider creates a new Anthropic provider. An empty baseURL selects the
// public API.
func NewProvider(apiKey, defaultModel, baseURL string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "claude-3-5-haiku-latest"
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Provider{
		apiKey:       apiKey,
		defaultModel: defaultModel,
		client:       &http.Client{Timeout: 120 * time.Second},
		baseURL:      strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return "anthropic"
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return []string{
		"claude-3-5-haiku-latest",
		"claude-3-5-sonnet-latest",
		"claude-3-7-sonnet-latest",
		"claude-sonnet-4-0",
	}
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
	Messages  []llm.Message `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Chat calls the Messages API. Conversations must open with a user turn, so
// a leading greeting from the assistant is not sent.
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	messages := llm.TrimLeadingAssistant(req.Messages)
	if len(messages) == 0 {
		return nil, fmt.Errorf("anthropic requires at least one user message")
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     model,
		MaxTokens: 2048,
		System:    req.System,
		Messages:  messages,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	start := time.Now()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", p.apiKey)
	httpReq.Header.Set("anthropic-version", "2023-06-01")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("anthropic returned status %d", resp.StatusCode)
	}

	var anthropicResp anthropicResponse
	if err := json.NewDecoder(resp.Body).Decode(&anthropicResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	texts := lo.FilterMap(anthropicResp.Content, func(c struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}, _ int) (string, bool) {
		return c.Text, c.Type == "text" || c.Type == ""
	})
	if len(texts) == 0 {
		return nil, fmt.Errorf("no response from Anthropic")
	}

	return &llm.Response{
		Content:    strings.Join(texts, ""),
		Model:      model,
		TokensUsed: anthropicResp.Usage.InputTokens + anthropicResp.Usage.OutputTokens,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
