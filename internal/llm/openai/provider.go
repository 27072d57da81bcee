package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// Options configures an OpenAI-compatible chat completions provider
type Options struct {
	Name         string
	APIKey       string
	BaseURL      string
	DefaultModel string
	Models       []string
}

// Provider implements llm.Provider for OpenAI and API-compatible services
type Provider struct {
	name         string
	apiKey       string
	defaultModel string
	models       []string
	client       openai.Client
}

// NewProvider creates a new OpenAI provider
func NewProvider(apiKey, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "gpt-4o-mini"
	}
	return NewCompatible(Options{
		Name:         "openai",
		APIKey:       apiKey,
		DefaultModel: defaultModel,
		Models: []string{
			"gpt-4o",
			"gpt-4o-mini",
			"gpt-4.1",
			"gpt-4.1-mini",
			"gpt-5-mini",
		},
	})
}

// NewCompatible creates a provider for any service speaking the chat
// completions protocol
func NewCompatible(opts Options) *Provider {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithRequestTimeout(120 * time.Second),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	return &Provider{
		name:         opts.Name,
		apiKey:       opts.APIKey,
		defaultModel: opts.DefaultModel,
		models:       opts.Models,
		client:       openai.NewClient(reqOpts...),
	}
}

// Name returns the provider identifier
func (p *Provider) Name() string {
	return p.name
}

// AvailableModels returns list of supported models
func (p *Provider) AvailableModels() []string {
	return p.models
}

// DefaultModel returns the default model
func (p *Provider) DefaultModel() string {
	return p.defaultModel
}

// IsConfigured checks if provider has valid credentials
func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

func toParams(req llm.ChatRequest) []openai.ChatCompletionMessageParamUnion {
	params := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		params = append(params, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			params = append(params, openai.AssistantMessage(m.Content))
		case llm.RoleSystem:
			params = append(params, openai.SystemMessage(m.Content))
		default:
			params = append(params, openai.UserMessage(m.Content))
		}
	}
	return params
}

// Chat calls the chat completions endpoint
func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest, model string) (*llm.Response, error) {
	if model == "" {
		model = p.defaultModel
	}

	start := time.Now()

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(model),
		Messages: toParams(req),
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion failed: %w", err)
	}

	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no response from %s", p.name)
	}

	return &llm.Response{
		Content:    completion.Choices[0].Message.Content,
		Model:      model,
		TokensUsed: int(completion.Usage.TotalTokens),
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
