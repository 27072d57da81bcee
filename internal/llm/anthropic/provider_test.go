package anthropic

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

func TestProvider_ChatDropsLeadingAssistant(t *testing.T) {
	var got anthropicRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Bring an umbrella."}],"usage":{"input_tokens":3,"output_tokens":4}}`))
	}))
	defer srv.Close()

	p := NewProvider("test-key", "", srv.URL)
	resp, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleAssistant, Content: "Hello"},
			{Role: llm.RoleUser, Content: "Weather in Bergen?"},
		},
	}, "")
	require.NoError(t, err)

	assert.Equal(t, "Bring an umbrella.", resp.Content)
	assert.Equal(t, 7, resp.TokensUsed)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, llm.RoleUser, got.Messages[0].Role)
}

func TestProvider_ChatWithoutUserTurn(t *testing.T) {
	p := NewProvider("test-key", "", "http://127.0.0.1:0")
	_, err := p.Chat(context.Background(), llm.ChatRequest{
		Messages: []llm.Message{{Role: llm.RoleAssistant, Content: "Hello"}},
	}, "")
	assert.Error(t, err)
}
