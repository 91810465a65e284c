package registry

import (
	"fmt"
	"strings"
	"sync"

	"github.com/haloforge/aikit/pkg/provider"
)

// NoSuchProviderError is returned when a model identifier names a provider
// id that was never registered. Available lists the provider ids that were
// registered at the time of the lookup, so callers can surface a useful
// error message without re-querying the registry.
type NoSuchProviderError struct {
	ProviderID string
	Available  []string
}

func (e *NoSuchProviderError) Error() string {
	return fmt.Sprintf("no such provider %q (available: %s)", e.ProviderID, strings.Join(e.Available, ", "))
}

// NoSuchModelError is returned when a model identifier is malformed (no
// separator), or names a model id a known provider does not recognize.
type NoSuchModelError struct {
	ModelID string
	Cause   error
}

func (e *NoSuchModelError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("no such model %q: %v", e.ModelID, e.Cause)
	}
	return fmt.Sprintf("no such model %q (expected \"provider_id:model_id\")", e.ModelID)
}

func (e *NoSuchModelError) Unwrap() error { return e.Cause }

// Global registry instance
var globalRegistry = NewRegistry()

// Registry manages providers and model resolution
type Registry struct {
	mu         sync.RWMutex
	providers  map[string]provider.Provider
	aliases    map[string]string // model alias -> provider:model
	separator  string
	middleware []*middlewareApplier
}

// middlewareApplier lets the registry apply middleware to returned models
// without pkg/registry importing pkg/middleware's concrete types, avoiding
// an import cycle (pkg/middleware depends only on pkg/provider).
type middlewareApplier struct {
	wrapLanguageModel func(provider.LanguageModel) provider.LanguageModel
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithSeparator overrides the default ":" separator between provider id and
// model id in resolved identifiers.
func WithSeparator(sep string) Option {
	return func(r *Registry) { r.separator = sep }
}

// WithLanguageModelMiddleware registers a transform applied to every
// LanguageModel this registry resolves, regardless of provider.
func WithLanguageModelMiddleware(wrap func(provider.LanguageModel) provider.LanguageModel) Option {
	return func(r *Registry) {
		r.middleware = append(r.middleware, &middlewareApplier{wrapLanguageModel: wrap})
	}
}

// NewRegistry creates a new registry
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		providers: make(map[string]provider.Provider),
		aliases:   make(map[string]string),
		separator: ":",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RegisterProvider registers a provider with a name
func (r *Registry) RegisterProvider(name string, p provider.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[name] = p
}

// GetProvider returns a provider by name
func (r *Registry) GetProvider(name string) (provider.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.providers[name]
	if !ok {
		return nil, &NoSuchProviderError{ProviderID: name, Available: r.providerNamesLocked()}
	}
	return p, nil
}

// RegisterAlias registers a model alias
// Example: RegisterAlias("gpt-4", "openai:gpt-4")
func (r *Registry) RegisterAlias(alias, target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = target
}

// ResolveLanguageModel resolves a model string to a LanguageModel
// Supports formats:
//   - "gpt-4" -> uses registered aliases
//   - "openai:gpt-4" -> provider:model format
func (r *Registry) ResolveLanguageModel(model string) (provider.LanguageModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[model]; ok {
		model = target
	}

	providerName, modelID, err := r.parseModelStringLocked(model)
	if err != nil {
		return nil, err
	}

	p, ok := r.providers[providerName]
	if !ok {
		return nil, &NoSuchProviderError{ProviderID: providerName, Available: r.providerNamesLocked()}
	}

	lm, err := p.LanguageModel(modelID)
	if err != nil {
		return nil, &NoSuchModelError{ModelID: model, Cause: err}
	}

	for _, mw := range r.middleware {
		if mw.wrapLanguageModel != nil {
			lm = mw.wrapLanguageModel(lm)
		}
	}
	return lm, nil
}

// ResolveEmbeddingModel resolves a model string to an EmbeddingModel
func (r *Registry) ResolveEmbeddingModel(model string) (provider.EmbeddingModel, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if target, ok := r.aliases[model]; ok {
		model = target
	}

	providerName, modelID, err := r.parseModelStringLocked(model)
	if err != nil {
		return nil, err
	}

	p, ok := r.providers[providerName]
	if !ok {
		return nil, &NoSuchProviderError{ProviderID: providerName, Available: r.providerNamesLocked()}
	}

	em, err := p.EmbeddingModel(modelID)
	if err != nil {
		return nil, &NoSuchModelError{ModelID: model, Cause: err}
	}
	return em, nil
}

// ListProviders returns all registered provider names
func (r *Registry) ListProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.providerNamesLocked()
}

func (r *Registry) providerNamesLocked() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}

// ListAliases returns all registered aliases
func (r *Registry) ListAliases() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	aliases := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		aliases[k] = v
	}
	return aliases
}

func (r *Registry) parseModelStringLocked(model string) (providerName, modelID string, err error) {
	return parseModelStringWithSeparator(model, r.separator)
}

// parseModelString parses a model string into provider and model ID using
// the default ":" separator. Kept for callers (and tests) constructed
// before per-registry separators existed.
func parseModelString(model string) (providerName, modelID string, err error) {
	return parseModelStringWithSeparator(model, ":")
}

func parseModelStringWithSeparator(model, sep string) (providerName, modelID string, err error) {
	idx := strings.Index(model, sep)
	if idx < 0 {
		return "", "", &NoSuchModelError{ModelID: model}
	}
	providerName, modelID = model[:idx], model[idx+len(sep):]
	if providerName == "" || modelID == "" {
		return "", "", &NoSuchModelError{ModelID: model}
	}
	return providerName, modelID, nil
}

// Global registry functions

// RegisterProvider registers a provider in the global registry
func RegisterProvider(name string, p provider.Provider) {
	globalRegistry.RegisterProvider(name, p)
}

// GetProvider returns a provider from the global registry
func GetProvider(name string) (provider.Provider, error) {
	return globalRegistry.GetProvider(name)
}

// RegisterAlias registers a model alias in the global registry
func RegisterAlias(alias, target string) {
	globalRegistry.RegisterAlias(alias, target)
}

// ResolveLanguageModel resolves a model string using the global registry
func ResolveLanguageModel(model string) (provider.LanguageModel, error) {
	return globalRegistry.ResolveLanguageModel(model)
}

// ResolveEmbeddingModel resolves an embedding model string using the global registry
func ResolveEmbeddingModel(model string) (provider.EmbeddingModel, error) {
	return globalRegistry.ResolveEmbeddingModel(model)
}

// GetGlobalRegistry returns the global registry instance
func GetGlobalRegistry() *Registry {
	return globalRegistry
}
