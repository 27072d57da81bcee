package deepseek

import (
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/Rrens/mika-travel/internal/llm/openai"
)

const baseURL = "https://api.deepseek.com/v1"

// NewProvider creates a new DeepSeek provider. DeepSeek speaks the OpenAI
// chat completions protocol.
func NewProvider(apiKey, defaultModel string) llm.Provider {
	if defaultModel == "" {
		defaultModel = "deepseek-chat"
	}
	return openai.NewCompatible(openai.Options{
		Name:         "deepseek",
		APIKey:       apiKey,
		BaseURL:      baseURL,
		DefaultModel: defaultModel,
		Models: []string{
			"deepseek-chat",
			"deepseek-reasoner",
		},
	})
}
