package ark

import (
	"context"
	"fmt"
	"time"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/schema"
)

// Config holds Volcengine Ark credentials
type Config struct {
	BaseURL   string
	Region    string
	APIKey    string
	AccessKey string
	SecretKey string
	Model     string
	MaxTokens int
}

// Provider implements llm.Provider on top of an eino Ark chat model
type Provider struct {
	cfg Config
}

// NewProvider creates a new Ark provider
func NewProvider(cfg Config) *Provider {
	return &Provider{cfg: cfg}
}

func (p *Provider) Name() string {
	return "ark"
}

func (p *Provider) AvailableModels() []string {
	if p.cfg.Model == "" {
		return nil
	}
	return []string{p.cfg.Model}
}

// DefaultModel returns the configured endpoint or model id
func (p *Provider) DefaultModel() string {
	return p.cfg.Model
}

func (p *Provider) IsConfigured() bool {
	return p.cfg.Model != "" && (p.cfg.APIKey != "" || (p.cfg.AccessKey != "" && p.cfg.SecretKey != ""))
}

func toSchema(req llm.ChatRequest) []*schema.Message {
	out := make([]*schema.Message, 0, len(req.Messages)+1)
	if req.System != "" {
		out = append(out, schema.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case llm.RoleAssistant:
			out = append(out, schema.AssistantMessage(m.Content, nil))
		case llm.RoleSystem:
			out = append(out, schema.SystemMessage(m.Content))
		default:
			out = append(out, schema.UserMessage(m.Content))
		}
	}
	return out
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest, model string) (*llm.Response, error) {
	if model == "" {
		model = p.cfg.Model
	}

	var maxTokens *int
	if p.cfg.MaxTokens > 0 {
		val := p.cfg.MaxTokens
		maxTokens = &val
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL:   p.cfg.BaseURL,
		Region:    p.cfg.Region,
		APIKey:    p.cfg.APIKey,
		AccessKey: p.cfg.AccessKey,
		SecretKey: p.cfg.SecretKey,
		Model:     model,
		MaxTokens: maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ark chat model: %w", err)
	}

	start := time.Now()
	msg, err := chatModel.Generate(ctx, toSchema(req))
	if err != nil {
		return nil, fmt.Errorf("ark generation error: %w", err)
	}

	tokensUsed := 0
	if msg.ResponseMeta != nil && msg.ResponseMeta.Usage != nil {
		tokensUsed = msg.ResponseMeta.Usage.TotalTokens
	}

	return &llm.Response{
		Content:    msg.Content,
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  time.Since(start).Milliseconds(),
	}, nil
}
