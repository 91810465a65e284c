package googlevertex

import (
	"context"
	"fmt"

	providererrors "github.com/haloforge/aikit/pkg/provider/errors"
	"github.com/haloforge/aikit/pkg/provider/types"
	"golang.org/x/sync/errgroup"
)

// EmbeddingModel implements the provider.EmbeddingModel interface for
// Google Vertex AI's text embedding models (textembedding-gecko and
// successors), reached through the publisher `:predict` endpoint rather
// than the `embedContent` endpoint the `google` package's Gemini-branded
// embedding models use.
type EmbeddingModel struct {
	provider *Provider
	modelID  string
}

// NewEmbeddingModel creates a new Google Vertex AI embedding model
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
	return "google-vertex"
}

// ModelID returns the model ID
func (m *EmbeddingModel) ModelID() string {
	return m.modelID
}

// MaxEmbeddingsPerCall returns the maximum number of embeddings per call.
// Vertex's text embedding :predict endpoint accepts up to 250 instances.
func (m *EmbeddingModel) MaxEmbeddingsPerCall() int {
	return 250
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
		Usage:     result.Usage,
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

// embedBatch sends a single :predict request for a batch no larger than
// MaxEmbeddingsPerCall.
func (m *EmbeddingModel) embedBatch(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error) {
	instances := make([]map[string]interface{}, len(inputs))
	for i, input := range inputs {
		instances[i] = map[string]interface{}{"content": input}
	}
	reqBody := map[string]interface{}{"instances": instances}

	path := fmt.Sprintf("/models/%s:predict", m.modelID)

	var response vertexEmbeddingResponse
	if err := m.provider.client.PostJSON(ctx, path, reqBody, &response); err != nil {
		return nil, m.handleError(err)
	}
	if len(response.Predictions) != len(inputs) {
		return nil, fmt.Errorf("google-vertex: expected %d embeddings, got %d", len(inputs), len(response.Predictions))
	}

	embeddings := make([][]float64, len(response.Predictions))
	totalTokens := 0
	for i, prediction := range response.Predictions {
		embeddings[i] = prediction.Embeddings.Values
		totalTokens += prediction.Embeddings.Statistics.TokenCount
	}

	return &types.EmbeddingsResult{
		Embeddings: embeddings,
		Usage: types.EmbeddingUsage{
			InputTokens: totalTokens,
			TotalTokens: totalTokens,
		},
	}, nil
}

// handleError converts various errors to provider errors
func (m *EmbeddingModel) handleError(err error) error {
	return providererrors.NewProviderError("google-vertex", 0, "", err.Error(), err)
}

// vertexEmbeddingResponse represents the Vertex AI text embedding
// :predict API response
type vertexEmbeddingResponse struct {
	Predictions []struct {
		Embeddings struct {
			Values     []float64 `json:"values"`
			Statistics struct {
				TokenCount int `json:"token_count"`
			} `json:"statistics"`
		} `json:"embeddings"`
	} `json:"predictions"`
}
