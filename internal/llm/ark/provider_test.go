package ark

import (
	"testing"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_IsConfigured(t *testing.T) {
	assert.False(t, NewProvider(Config{}).IsConfigured())
	assert.False(t, NewProvider(Config{APIKey: "k"}).IsConfigured())
	assert.True(t, NewProvider(Config{APIKey: "k", Model: "ep-1"}).IsConfigured())
	assert.True(t, NewProvider(Config{AccessKey: "a", SecretKey: "s", Model: "ep-1"}).IsConfigured())
}

func TestToSchema(t *testing.T) {
	msgs := toSchema(llm.ChatRequest{
		System: "sys",
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Hello"},
			{Role: llm.RoleUser, Content: "Kyoto?"},
		},
	})
	require.Len(t, msgs, 3)
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Equal(t, schema.Assistant, msgs[1].Role)
	assert.Equal(t, schema.User, msgs[2].Role)
	assert.Equal(t, "Kyoto?", msgs[2].Content)
}
