package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type Provider struct {
	apiKey string
	model  string
}

func NewProvider(apiKey, model string) *Provider {
	return &Provider{
		apiKey: apiKey,
		model:  model,
	}
}

func (p *Provider) Name() string {
	return "gemini"
}

func (p *Provider) AvailableModels() []string {
	return []string{
		"gemini-2.5-flash",
		"gemini-2.5-pro",
		"gemini-1.5-flash",
		"gemini-1.5-pro",
	}
}

func (p *Provider) DefaultModel() string {
	if p.model != "" {
		return p.model
	}
	return "gemini-2.5-flash"
}

func (p *Provider) IsConfigured() bool {
	return p.apiKey != ""
}

// toContent maps a message onto Gemini's two roles
func toContent(m llm.Message) *genai.Content {
	role := "user"
	if m.Role == llm.RoleAssistant {
		role = "model"
	}
	return &genai.Content{Role: role, Parts: []genai.Part{genai.Text(m.Content)}}
}

func (p *Provider) Chat(ctx context.Context, req llm.ChatRequest, model string) (*llm.Response, error) {
	if !p.IsConfigured() {
		return nil, fmt.Errorf("gemini provider is not configured (missing API key)")
	}

	history, last, ok := llm.SplitLast(req.Messages)
	if !ok {
		return nil, fmt.Errorf("gemini chat requires at least one message")
	}

	if model == "" {
		model = p.DefaultModel()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(p.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	generativeModel := client.GenerativeModel(model)
	if req.System != "" {
		generativeModel.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	cs := generativeModel.StartChat()
	for _, m := range history {
		cs.History = append(cs.History, toContent(m))
	}

	start := time.Now()
	resp, err := cs.SendMessage(ctx, genai.Text(last.Content))
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return nil, fmt.Errorf("gemini generation error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var output strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			output.WriteString(string(text))
		}
	}

	tokensUsed := 0
	if resp.UsageMetadata != nil {
		tokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	return &llm.Response{
		Content:    output.String(),
		Model:      model,
		TokensUsed: tokensUsed,
		LatencyMs:  latency,
	}, nil
}
