package middleware

import (
	"context"

	"github.com/haloforge/aikit/pkg/internal/retry"
	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
)

// RetryConfig configures RetryMiddleware. Zero value uses retry.DefaultConfig.
type RetryConfig struct {
	retry.Config
}

// RetryMiddleware wraps DoGenerate, and the connection-establishing step of
// DoStream, in exponential backoff with jitter, retrying only the error
// categories the transport marks retryable (transport failures, 429, 5xx).
// Once a stream has started delivering events to the caller, it is never
// restarted: event consumption happens outside this middleware, so a
// failure raised mid-stream surfaces on the next Next() call rather than
// triggering a silent replay from the beginning.
func RetryMiddleware(cfg RetryConfig) *LanguageModelMiddleware {
	rc := cfg.Config
	return &LanguageModelMiddleware{
		SpecificationVersion: "v3",
		WrapGenerate: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (*types.GenerateResult, error) {
			var result *types.GenerateResult
			err := retry.Do(ctx, rc, func(ctx context.Context) error {
				var genErr error
				result, genErr = doGenerate()
				return genErr
			})
			if err != nil {
				return nil, err
			}
			return result, nil
		},
		WrapStream: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (provider.TextStream, error) {
			var stream provider.TextStream
			err := retry.Do(ctx, rc, func(ctx context.Context) error {
				var streamErr error
				stream, streamErr = doStream()
				return streamErr
			})
			if err != nil {
				return nil, err
			}
			return stream, nil
		},
	}
}
