package middleware

import (
	"context"
	"fmt"

	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
	"golang.org/x/time/rate"
)

// RateLimitConfig configures RateLimitMiddleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate generate/stream calls are
	// allowed through at.
	RequestsPerSecond float64

	// Burst is the maximum number of calls allowed to proceed immediately
	// before the steady-state rate applies. Defaults to 1 if zero.
	Burst int
}

// RateLimitMiddleware throttles generate/stream calls to a token bucket
// (golang.org/x/time/rate), blocking the caller until a token is available
// or ctx is cancelled rather than rejecting the call outright.
func RateLimitMiddleware(cfg RateLimitConfig) *LanguageModelMiddleware {
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)

	return &LanguageModelMiddleware{
		SpecificationVersion: "v3",
		WrapGenerate: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (*types.GenerateResult, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit middleware: %w", err)
			}
			return doGenerate()
		},
		WrapStream: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (provider.TextStream, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit middleware: %w", err)
			}
			return doStream()
		},
	}
}
