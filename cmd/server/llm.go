package main

import (
	"github.com/Rrens/mika-travel/internal/config"
	"github.com/Rrens/mika-travel/internal/llm"
	"github.com/Rrens/mika-travel/internal/llm/anthropic"
	"github.com/Rrens/mika-travel/internal/llm/ark"
	"github.com/Rrens/mika-travel/internal/llm/deepseek"
	"github.com/Rrens/mika-travel/internal/llm/gemini"
	"github.com/Rrens/mika-travel/internal/llm/ollama"
	"github.com/Rrens/mika-travel/internal/llm/openai"
	"github.com/rs/zerolog/log"
)

func newLLMRouter(cfg config.LLMConfig) *llm.Router {
	router := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		router.RegisterProvider(ollama.NewProvider(cfg.Ollama.Host, cfg.Ollama.DefaultModel))
	}
	if cfg.OpenAI.APIKey != "" {
		router.RegisterProvider(openai.NewProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model))
	}
	if cfg.Anthropic.APIKey != "" {
		router.RegisterProvider(anthropic.NewProvider(cfg.Anthropic.APIKey, cfg.Anthropic.Model, cfg.Anthropic.BaseURL))
	}
	if cfg.DeepSeek.APIKey != "" {
		router.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek.APIKey, cfg.DeepSeek.Model))
	}
	if cfg.Gemini.APIKey != "" {
		router.RegisterProvider(gemini.NewProvider(cfg.Gemini.APIKey, cfg.Gemini.Model))
	}

	arkProvider := ark.NewProvider(ark.Config{
		BaseURL:   cfg.Ark.BaseURL,
		Region:    cfg.Ark.Region,
		APIKey:    cfg.Ark.APIKey,
		AccessKey: cfg.Ark.AccessKey,
		SecretKey: cfg.Ark.SecretKey,
		Model:     cfg.Ark.Model,
		MaxTokens: cfg.Ark.MaxTokens,
	})
	if arkProvider.IsConfigured() {
		router.RegisterProvider(arkProvider)
	}

	if _, err := router.GetProvider(""); err != nil {
		log.Warn().Err(err).Msg("Default LLM provider unavailable; chat and itineraries will fail")
	}

	return router
}
