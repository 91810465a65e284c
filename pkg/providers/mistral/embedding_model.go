package mistral

import (
	"context"
	"fmt"

	providererrors "github.com/haloforge/aikit/pkg/provider/errors"
	"github.com/haloforge/aikit/pkg/provider/types"
	"golang.org/x/sync/errgroup"
)

// EmbeddingModel implements the provider.EmbeddingModel interface for Mistral AI
type EmbeddingModel struct {
	provider *Provider
	modelID  string
}

// NewEmbeddingModel creates a new Mistral AI embedding model
func NewEmbeddingModel(provider *Provider, modelID string) *EmbeddingModel {
	return &EmbeddingModel{
		provider: provider,
		modelID:  modelID,
	}
}

// SpecificationVersion returns the specification version
func (m *EmbeddingModel) SpecificationVersion() string {
	return "v3"
}

// Provider returns the provider name
func (m *EmbeddingModel) Provider() string {
	return "mistral"
}

// ModelID returns the model ID
func (m *EmbeddingModel) ModelID() string {
	return m.modelID
}

// MaxEmbeddingsPerCall returns the maximum number of embeddings per call.
// Mistral's embeddings endpoint accepts up to 32 inputs per request.
func (m *EmbeddingModel) MaxEmbeddingsPerCall() int {
	return 32
}

// SupportsParallelCalls returns whether parallel calls are supported
func (m *EmbeddingModel) SupportsParallelCalls() bool {
	return true
}

// DoEmbed performs embedding for a single input
func (m *EmbeddingModel) DoEmbed(ctx context.Context, input string) (*types.EmbeddingResult, error) {
	result, err := m.embedBatch(ctx, []string{input})
	if err != nil {
		return nil, err
	}
	return &types.EmbeddingResult{
		Embedding: result.Embeddings[0],
		Usage: types.EmbeddingUsage{
			InputTokens: result.Usage.InputTokens,
			TotalTokens: result.Usage.TotalTokens,
		},
	}, nil
}

// DoEmbedMany performs embedding for multiple inputs, splitting them into
// MaxEmbeddingsPerCall-sized batches and dispatching the batches
// concurrently via errgroup.
func (m *EmbeddingModel) DoEmbedMany(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error) {
	if len(inputs) == 0 {
		return &types.EmbeddingsResult{Embeddings: [][]float64{}}, nil
	}

	maxBatch := m.MaxEmbeddingsPerCall()
	var batches [][]string
	for i := 0; i < len(inputs); i += maxBatch {
		end := i + maxBatch
		if end > len(inputs) {
			end = len(inputs)
		}
		batches = append(batches, inputs[i:end])
	}

	results := make([]*types.EmbeddingsResult, len(batches))
	g, gctx := errgroup.WithContext(ctx)
	for i, batch := range batches {
		i, batch := i, batch
		g.Go(func() error {
			result, err := m.embedBatch(gctx, batch)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var embeddings [][]float64
	var totalTokens int
	for _, result := range results {
		embeddings = append(embeddings, result.Embeddings...)
		totalTokens += result.Usage.InputTokens
	}

	return &types.EmbeddingsResult{
		Embeddings: embeddings,
		Usage: types.EmbeddingUsage{
			InputTokens: totalTokens,
			TotalTokens: totalTokens,
		},
	}, nil
}

// embedBatch sends a single /v1/embeddings request for a batch no larger
// than MaxEmbeddingsPerCall. Mistral's embeddings response mirrors OpenAI's
// shape (indexed data entries plus a prompt/total token usage object).
func (m *EmbeddingModel) embedBatch(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error) {
	reqBody := map[string]interface{}{
		"model": m.modelID,
		"input": inputs,
	}

	var response mistralEmbeddingResponse
	if err := m.provider.client.PostJSON(ctx, "/v1/embeddings", reqBody, &response); err != nil {
		return nil, m.handleError(err)
	}
	if len(response.Data) != len(inputs) {
		return nil, fmt.Errorf("mistral: expected %d embeddings, got %d", len(inputs), len(response.Data))
	}

	embeddings := make([][]float64, len(response.Data))
	for i, data := range response.Data {
		if data.Index != i {
			return nil, fmt.Errorf("mistral: embedding index mismatch: expected %d, got %d", i, data.Index)
		}
		embeddings[i] = data.Embedding
	}

	return &types.EmbeddingsResult{
		Embeddings: embeddings,
		Usage: types.EmbeddingUsage{
			InputTokens: response.Usage.PromptTokens,
			TotalTokens: response.Usage.TotalTokens,
		},
	}, nil
}

// handleError converts various errors to provider errors
func (m *EmbeddingModel) handleError(err error) error {
	return providererrors.NewProviderError("mistral", 0, "", err.Error(), err)
}

// mistralEmbeddingResponse represents the Mistral embeddings API response
type mistralEmbeddingResponse struct {
	ID     string `json:"id"`
	Object string `json:"object"`
	Data   []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Model string `json:"model"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}
