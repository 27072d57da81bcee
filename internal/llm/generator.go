package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrEmptyResponse is returned when a provider answers with no content
var ErrEmptyResponse = errors.New("empty response from model")

// Generator produces one assistant message from an ordered conversation
type Generator interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// RouterGenerator binds a Router to a provider, model and timeout
type RouterGenerator struct {
	router   *Router
	provider string
	model    string
	system   string
	timeout  time.Duration
}

// NewGenerator creates a generator using the named provider ("" selects the
// router's default) and model ("" selects the provider's default)
func NewGenerator(router *Router, provider, model string, timeout time.Duration) *RouterGenerator {
	return &RouterGenerator{
		router:   router,
		provider: provider,
		model:    model,
		timeout:  timeout,
	}
}

// WithSystemPrompt returns a copy that sends system ahead of every conversation
func (g *RouterGenerator) WithSystemPrompt(system string) *RouterGenerator {
	cp := *g
	cp.system = system
	return &cp
}

// Complete implements Generator
func (g *RouterGenerator) Complete(ctx context.Context, messages []Message) (string, error) {
	provider, err := g.router.GetProvider(g.provider)
	if err != nil {
		return "", err
	}

	model := g.model
	if model == "" {
		model = provider.DefaultModel()
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := provider.Chat(ctx, ChatRequest{System: g.system, Messages: messages}, model)
	if err != nil {
		return "", fmt.Errorf("%s: %w", provider.Name(), err)
	}

	content := strings.TrimSpace(resp.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}

	log.Debug().
		Str("provider", provider.Name()).
		Str("model", resp.Model).
		Int("messages", len(messages)).
		Int("tokens_used", resp.TokensUsed).
		Int64("latency_ms", resp.LatencyMs).
		Msg("LLM response received")

	return content, nil
}
