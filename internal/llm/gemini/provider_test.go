package gemini

import (
	"context"
	"testing"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
)

func TestToContent(t *testing.T) {
	c := toContent(llm.Message{Role: llm.RoleAssistant, Content: "Hello"})
	assert.Equal(t, "model", c.Role)
	assert.Equal(t, []genai.Part{genai.Text("Hello")}, c.Parts)

	assert.Equal(t, "user", toContent(llm.Message{Role: llm.RoleUser, Content: "hi"}).Role)
}

func TestProvider_ChatRequiresKey(t *testing.T) {
	p := NewProvider("", "")
	assert.False(t, p.IsConfigured())
	assert.Equal(t, "gemini-2.5-flash", p.DefaultModel())

	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	}, "")
	assert.ErrorContains(t, err, "not configured")
}
