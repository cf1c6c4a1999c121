package generation

import (
	"fmt"

	"github.com/prepdesk/prepdesk-backend/internal/config"
)

// NewProvider creates a Provider from configuration. Variants:
//
//	anthropic — Anthropic cloud models
//	openai    — OpenAI cloud models
//	local     — any OpenAI-compatible endpoint (e.g. Ollama)
//	mock      — deterministic provider for tests and offline dev
func NewProvider(cfg config.GenerationConfig) (Provider, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.Model, cfg.MaxTokens)
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, "", cfg.Model, cfg.MaxTokens)
	case "local":
		return NewOpenAIProvider(cfg.OpenAIAPIKey, cfg.LocalBaseURL, cfg.Model, cfg.MaxTokens)
	case "mock":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown generation provider: %q", cfg.Provider)
	}
}
