package llm

import (
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"
)

// Options holds provider-specific settings for building a Client.
type Options struct {
	// OllamaBaseURL overrides the default Ollama address.
	OllamaBaseURL string
	// LMStudioBaseURL overrides the default LM Studio address.
	LMStudioBaseURL string
	// AnthropicAPIKey is the API key for the anthropic provider.
	AnthropicAPIKey string
	// AnthropicModel is the default model for the anthropic provider.
	AnthropicModel string
}

// New builds a Client for the named provider. An unknown provider name
// logs a warning and falls back to Ollama.
func New(provider string, opts Options) (Client, error) {
	switch provider {
	case "ollama", "":
		return NewOllamaClient(baseOr(opts.OllamaBaseURL, DefaultOllamaBaseURL)), nil
	case "lmstudio":
		return NewLMStudioClient(baseOr(opts.LMStudioBaseURL, DefaultLMStudioBaseURL)), nil
	case "anthropic":
		model := DefaultAnthropicModel
		if opts.AnthropicModel != "" {
			model = anthropic.Model(opts.AnthropicModel)
		}
		client, err := NewAnthropicClient(opts.AnthropicAPIKey, model)
		if err != nil {
			return nil, fmt.Errorf("create anthropic client: %w", err)
		}
		return client, nil
	default:
		log.Printf("[llm] unknown provider %q, using ollama", provider)
		return NewOllamaClient(baseOr(opts.OllamaBaseURL, DefaultOllamaBaseURL)), nil
	}
}

func baseOr(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
