package registry

import (
	"fmt"

	"github.com/haloforge/aikit/pkg/provider"
)

// CustomProvider wraps explicit per-model-type maps from model id to model
// instance, falling back to another provider.Provider when a lookup misses.
// It implements provider.Provider itself, so it can be registered into a
// Registry like any adapter-backed provider — useful for hand-wiring a
// handful of fine-tuned or self-hosted models alongside a real provider's
// catalogue.
type CustomProvider struct {
	name string

	languageModels      map[string]provider.LanguageModel
	embeddingModels     map[string]provider.EmbeddingModel
	imageModels         map[string]provider.ImageModel
	speechModels        map[string]provider.SpeechModel
	transcriptionModels map[string]provider.TranscriptionModel
	rerankingModels     map[string]provider.RerankingModel

	fallback provider.Provider
}

// NewCustomProvider creates a CustomProvider with the given name, registering
// no models. Use the WithXModel builders to populate it, or set models
// directly before use.
func NewCustomProvider(name string) *CustomProvider {
	return &CustomProvider{
		name:                name,
		languageModels:      make(map[string]provider.LanguageModel),
		embeddingModels:     make(map[string]provider.EmbeddingModel),
		imageModels:         make(map[string]provider.ImageModel),
		speechModels:        make(map[string]provider.SpeechModel),
		transcriptionModels: make(map[string]provider.TranscriptionModel),
		rerankingModels:     make(map[string]provider.RerankingModel),
	}
}

// WithFallback sets the provider consulted when a model id is not found in
// this CustomProvider's own maps.
func (p *CustomProvider) WithFallback(fallback provider.Provider) *CustomProvider {
	p.fallback = fallback
	return p
}

// AddLanguageModel registers a language model under modelID.
func (p *CustomProvider) AddLanguageModel(modelID string, model provider.LanguageModel) *CustomProvider {
	p.languageModels[modelID] = model
	return p
}

// AddEmbeddingModel registers an embedding model under modelID.
func (p *CustomProvider) AddEmbeddingModel(modelID string, model provider.EmbeddingModel) *CustomProvider {
	p.embeddingModels[modelID] = model
	return p
}

// AddImageModel registers an image model under modelID.
func (p *CustomProvider) AddImageModel(modelID string, model provider.ImageModel) *CustomProvider {
	p.imageModels[modelID] = model
	return p
}

// AddSpeechModel registers a speech model under modelID.
func (p *CustomProvider) AddSpeechModel(modelID string, model provider.SpeechModel) *CustomProvider {
	p.speechModels[modelID] = model
	return p
}

// AddTranscriptionModel registers a transcription model under modelID.
func (p *CustomProvider) AddTranscriptionModel(modelID string, model provider.TranscriptionModel) *CustomProvider {
	p.transcriptionModels[modelID] = model
	return p
}

// AddRerankingModel registers a reranking model under modelID.
func (p *CustomProvider) AddRerankingModel(modelID string, model provider.RerankingModel) *CustomProvider {
	p.rerankingModels[modelID] = model
	return p
}

// Name returns the provider name for logging and telemetry.
func (p *CustomProvider) Name() string { return p.name }

func (p *CustomProvider) LanguageModel(modelID string) (provider.LanguageModel, error) {
	if m, ok := p.languageModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.LanguageModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no language model %q", p.name, modelID)
}

func (p *CustomProvider) EmbeddingModel(modelID string) (provider.EmbeddingModel, error) {
	if m, ok := p.embeddingModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.EmbeddingModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no embedding model %q", p.name, modelID)
}

func (p *CustomProvider) ImageModel(modelID string) (provider.ImageModel, error) {
	if m, ok := p.imageModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.ImageModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no image model %q", p.name, modelID)
}

func (p *CustomProvider) SpeechModel(modelID string) (provider.SpeechModel, error) {
	if m, ok := p.speechModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.SpeechModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no speech model %q", p.name, modelID)
}

func (p *CustomProvider) TranscriptionModel(modelID string) (provider.TranscriptionModel, error) {
	if m, ok := p.transcriptionModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.TranscriptionModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no transcription model %q", p.name, modelID)
}

func (p *CustomProvider) RerankingModel(modelID string) (provider.RerankingModel, error) {
	if m, ok := p.rerankingModels[modelID]; ok {
		return m, nil
	}
	if p.fallback != nil {
		return p.fallback.RerankingModel(modelID)
	}
	return nil, fmt.Errorf("custom provider %q: no reranking model %q", p.name, modelID)
}
