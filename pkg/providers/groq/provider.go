package groq

import (
	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/providers/openai"
)

// Provider implements the provider.Provider interface for Groq.
// Groq's chat API is OpenAI-compatible, so it reuses the OpenAI wire format.
type Provider struct {
	*openai.Provider
}

// Config contains configuration for the Groq provider
type Config struct {
	// APIKey is the Groq API key (GROQ_API_KEY)
	APIKey string

	// BaseURL is the base URL for the Groq API (optional)
	BaseURL string
}

// New creates a new Groq provider. Groq uses an OpenAI-compatible API.
func New(cfg Config) *Provider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}

	openaiProvider := openai.New(openai.Config{
		APIKey:  cfg.APIKey,
		BaseURL: baseURL,
	})

	return &Provider{
		Provider: openaiProvider,
	}
}

// Name returns the provider name
func (p *Provider) Name() string {
	return "groq"
}

// LanguageModel returns a language model reporting "groq" as its provider
// name instead of the embedded openai.Provider's default.
func (p *Provider) LanguageModel(modelID string) (provider.LanguageModel, error) {
	return NewLanguageModel(p.Provider, modelID), nil
}
