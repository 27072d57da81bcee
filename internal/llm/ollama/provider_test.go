package ollama

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

func TestProvider_Chat(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message":           map[string]string{"role": "assistant", "content": "Try the night market."},
			"done":              true,
			"eval_count":        7,
			"prompt_eval_count": 5,
		})
	}))
	defer srv.Close()

	p := NewProvider(srv.URL+"/", "")
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		System: "be brief",
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Hello"},
			{Role: llm.RoleUser, Content: "Food in Taipei?"},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Try the night market.", resp.Content)
	assert.Equal(t, DefaultModel, resp.Model)
	assert.Equal(t, 12, resp.TokensUsed)

	assert.Equal(t, DefaultModel, got.Model)
	assert.False(t, got.Stream)
	require.Len(t, got.Messages, 3)
	assert.Equal(t, llm.RoleSystem, got.Messages[0].Role)
	assert.Equal(t, "Food in Taipei?", got.Messages[2].Content)
}

func TestProvider_ChatErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(srv.URL, "llama3.1")
	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
	}, "")
	assert.ErrorContains(t, err, "status 500")
}

func TestProvider_IsConfigured(t *testing.T) {
	assert.False(t, NewProvider("", "").IsConfigured())
	assert.True(t, NewProvider("http://localhost:11434", "").IsConfigured())
}
