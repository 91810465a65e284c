package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
)

// ResultCache stores generate results keyed by a deterministic hash of the
// request. Implementations are responsible for their own TTL expiry.
type ResultCache interface {
	Get(key string) (*types.GenerateResult, bool)
	Set(key string, result *types.GenerateResult)
}

// MemoryResultCache is an in-memory ResultCache with a fixed TTL per entry.
type MemoryResultCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]cacheEntry
}

type cacheEntry struct {
	result    *types.GenerateResult
	expiresAt time.Time
}

// NewMemoryResultCache creates a MemoryResultCache whose entries expire
// after ttl.
func NewMemoryResultCache(ttl time.Duration) *MemoryResultCache {
	return &MemoryResultCache{
		ttl:     ttl,
		entries: make(map[string]cacheEntry),
	}
}

// Get implements ResultCache.
func (c *MemoryResultCache) Get(key string) (*types.GenerateResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.result, true
}

// Set implements ResultCache.
func (c *MemoryResultCache) Set(key string, result *types.GenerateResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{result: result, expiresAt: time.Now().Add(c.ttl)}
}

// CachingConfig configures CachingMiddleware.
type CachingConfig struct {
	// Cache stores results. Required.
	Cache ResultCache
}

// cacheKeyParams is the subset of GenerateOptions the cache key is hashed
// from: provider, model, messages and sampling params. Tools are
// deliberately excluded, since tool calls are non-deterministic and a
// request carrying tools is never cached (see isCacheable).
type cacheKeyParams struct {
	Provider         string
	ModelID          string
	Prompt           types.Prompt
	Temperature      *float64
	MaxTokens        *int
	TopP             *float64
	TopK             *int
	FrequencyPenalty *float64
	PresencePenalty  *float64
	StopSequences    []string
	Seed             *int
}

func cacheKey(model provider.LanguageModel, params *provider.GenerateOptions) (string, error) {
	keyParams := cacheKeyParams{
		Provider:         model.Provider(),
		ModelID:          model.ModelID(),
		Prompt:           params.Prompt,
		Temperature:      params.Temperature,
		MaxTokens:        params.MaxTokens,
		TopP:             params.TopP,
		TopK:             params.TopK,
		FrequencyPenalty: params.FrequencyPenalty,
		PresencePenalty:  params.PresencePenalty,
		StopSequences:    params.StopSequences,
		Seed:             params.Seed,
	}
	data, err := json.Marshal(keyParams)
	if err != nil {
		return "", fmt.Errorf("caching middleware: hash request: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// isCacheable excludes requests with tools: tool execution is
// non-deterministic (the tool's own Execute function may have side
// effects or external state), so their results are never reused.
func isCacheable(params *provider.GenerateOptions) bool {
	return len(params.Tools) == 0
}

// CachingMiddleware keys on a deterministic hash of {provider, model,
// messages, sampling params} and serves cache hits without invoking the
// downstream adapter. Only non-streaming generate calls are cached;
// streams always reach the adapter.
func CachingMiddleware(cfg CachingConfig) *LanguageModelMiddleware {
	return &LanguageModelMiddleware{
		SpecificationVersion: "v3",
		WrapGenerate: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (*types.GenerateResult, error) {
			if !isCacheable(params) {
				return doGenerate()
			}

			key, err := cacheKey(model, params)
			if err != nil {
				return doGenerate()
			}

			if cached, hit := cfg.Cache.Get(key); hit {
				return cached, nil
			}

			result, err := doGenerate()
			if err != nil {
				return nil, err
			}
			cfg.Cache.Set(key, result)
			return result, nil
		},
	}
}
