package cohere

import (
	"context"

	providererrors "github.com/haloforge/aikit/pkg/provider/errors"
	"github.com/haloforge/aikit/pkg/provider/types"
	"golang.org/x/sync/errgroup"
)

// EmbeddingModel implements the provider.EmbeddingModel interface for Cohere
type EmbeddingModel struct {
	provider *Provider
	modelID  string
	options  EmbeddingOptions
}

// NewEmbeddingModel creates a new Cohere embedding model
func NewEmbeddingModel(provider *Provider, modelID string, options ...EmbeddingOptions) *EmbeddingModel {
	opts := DefaultEmbeddingOptions()
	if len(options) > 0 {
		opts = options[0]
	}
	return &EmbeddingModel{
		provider: provider,
		modelID:  modelID,
		options:  opts,
	}
}

// SpecificationVersion returns the specification version
func (m *EmbeddingModel) SpecificationVersion() string {
	return "v3"
}

// Provider returns the provider name
func (m *EmbeddingModel) Provider() string {
	return "cohere"
}

// ModelID returns the model ID
func (m *EmbeddingModel) ModelID() string {
	return m.modelID
}

// MaxEmbeddingsPerCall returns the maximum number of embeddings per call
// Cohere supports 96 embeddings per API call
func (m *EmbeddingModel) MaxEmbeddingsPerCall() int {
	return 96
}

// SupportsParallelCalls returns whether parallel calls are supported
func (m *EmbeddingModel) SupportsParallelCalls() bool {
	return true
}

// DoEmbed performs embedding for a single input
func (m *EmbeddingModel) DoEmbed(ctx context.Context, input string) (*types.EmbeddingResult, error) {
	result, err := m.DoEmbedMany(ctx, []string{input})
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
// concurrently (Cohere's own per-call limit, 96, is smaller than most
// caller-side input lists).
func (m *EmbeddingModel) DoEmbedMany(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error) {
	if err := m.options.Validate(); err != nil {
		return nil, err
	}
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

// embedBatch sends a single /v1/embed request for a batch no larger than
// MaxEmbeddingsPerCall.
func (m *EmbeddingModel) embedBatch(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error) {
	reqBody := map[string]interface{}{
		"texts": inputs,
		"model": m.modelID,
	}

	if m.options.InputType != "" {
		reqBody["input_type"] = string(m.options.InputType)
	} else {
		reqBody["input_type"] = "search_document"
	}
	if m.options.Truncate != "" {
		reqBody["truncate"] = string(m.options.Truncate)
	}
	if m.options.OutputDimension != nil {
		reqBody["output_dimension"] = int(*m.options.OutputDimension)
	}

	var response cohereEmbedResponse
	err := m.provider.client.PostJSON(ctx, "/v1/embed", reqBody, &response)
	if err != nil {
		return nil, providererrors.NewProviderError("cohere", 0, "", err.Error(), err)
	}
	return &types.EmbeddingsResult{
		Embeddings: response.Embeddings,
		Usage: types.EmbeddingUsage{
			InputTokens: response.Meta.BilledUnits.InputTokens,
			TotalTokens: response.Meta.BilledUnits.InputTokens,
		},
	}, nil
}

type cohereEmbedResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Meta       struct {
		BilledUnits struct {
			InputTokens int `json:"input_tokens"`
		} `json:"billed_units"`
	} `json:"meta"`
}
