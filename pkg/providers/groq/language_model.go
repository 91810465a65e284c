package groq

import (
	"github.com/haloforge/aikit/pkg/providers/openai"
)

// LanguageModel implements the provider.LanguageModel interface for Groq by
// delegating the OpenAI-compatible wire format to openai.LanguageModel,
// overriding only Provider() so callers see "groq" rather than "openai".
type LanguageModel struct {
	*openai.LanguageModel
}

// NewLanguageModel creates a new Groq language model
func NewLanguageModel(provider *openai.Provider, modelID string) *LanguageModel {
	return &LanguageModel{
		LanguageModel: openai.NewLanguageModel(provider, modelID),
	}
}

// Provider returns the provider name
func (m *LanguageModel) Provider() string {
	return "groq"
}
