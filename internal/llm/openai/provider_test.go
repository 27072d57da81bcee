package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompatible_Chat(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "test-model",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "Visit the fjords."}}],
			"usage": {"prompt_tokens": 9, "completion_tokens": 4, "total_tokens": 13}
		}`))
	}))
	defer srv.Close()

	p := NewCompatible(Options{
		Name:         "compat",
		APIKey:       "sk-test",
		BaseURL:      srv.URL,
		DefaultModel: "test-model",
	})

	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		System: "be brief",
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Hello"},
			{Role: llm.RoleUser, Content: "Norway tips?"},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Visit the fjords.", resp.Content)
	assert.Equal(t, 13, resp.TokensUsed)
	assert.Equal(t, "test-model", got.Model)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "assistant", got.Messages[1].Role)
	assert.Equal(t, "user", got.Messages[2].Role)
}

func TestProvider_Defaults(t *testing.T) {
	p := NewProvider("", "")
	assert.Equal(t, "openai", p.Name())
	assert.Equal(t, "gpt-4o-mini", p.DefaultModel())
	assert.False(t, p.IsConfigured())
}
