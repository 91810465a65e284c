package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/haloforge/aikit/pkg/internal/http"
	"github.com/haloforge/aikit/pkg/internal/retry"
	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
)

// flakyLanguageModel fails its first N generate calls with a retryable
// transport error, then succeeds.
type flakyLanguageModel struct {
	failures int
	calls    int
	result   *types.GenerateResult
}

func (m *flakyLanguageModel) SpecificationVersion() string     { return "v3" }
func (m *flakyLanguageModel) Provider() string                 { return "test" }
func (m *flakyLanguageModel) ModelID() string                  { return "test-model" }
func (m *flakyLanguageModel) SupportsTools() bool               { return false }
func (m *flakyLanguageModel) SupportsStructuredOutput() bool    { return false }
func (m *flakyLanguageModel) SupportsImageInput() bool          { return false }

func (m *flakyLanguageModel) DoGenerate(ctx context.Context, opts *provider.GenerateOptions) (*types.GenerateResult, error) {
	m.calls++
	if m.calls <= m.failures {
		return nil, &http.TransportError{Op: "do-request", URL: "https://example.test", Cause: context.DeadlineExceeded}
	}
	return m.result, nil
}

func (m *flakyLanguageModel) DoStream(ctx context.Context, opts *provider.GenerateOptions) (provider.TextStream, error) {
	return nil, nil
}

func testRetryConfig() RetryConfig {
	return RetryConfig{Config: retry.Config{
		MaxRetries:   3,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}}
}

func TestRetryMiddleware_SucceedsAfterRetryableFailures(t *testing.T) {
	t.Parallel()

	model := &flakyLanguageModel{
		failures: 2,
		result:   &types.GenerateResult{Text: "ok", FinishReason: types.FinishReasonStop},
	}

	wrapped := WrapLanguageModel(model, []*LanguageModelMiddleware{RetryMiddleware(testRetryConfig())}, nil, nil)

	result, err := wrapped.DoGenerate(context.Background(), &provider.GenerateOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Text != "ok" {
		t.Errorf("expected text 'ok', got %q", result.Text)
	}
	if model.calls != 3 {
		t.Errorf("expected 3 calls (2 failures + 1 success), got %d", model.calls)
	}
}

func TestRetryMiddleware_GivesUpOnNonRetryableError(t *testing.T) {
	t.Parallel()

	model := &mockLanguageModel{
		generateError: &http.ProtocolError{StatusCode: 400, Method: "POST", URL: "https://example.test", Body: []byte("bad request")},
	}

	wrapped := WrapLanguageModel(model, []*LanguageModelMiddleware{RetryMiddleware(testRetryConfig())}, nil, nil)

	_, err := wrapped.DoGenerate(context.Background(), &provider.GenerateOptions{})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRetryMiddleware_ExhaustsRetriesOnPersistentFailure(t *testing.T) {
	t.Parallel()

	model := &flakyLanguageModel{failures: 100}

	wrapped := WrapLanguageModel(model, []*LanguageModelMiddleware{RetryMiddleware(testRetryConfig())}, nil, nil)

	_, err := wrapped.DoGenerate(context.Background(), &provider.GenerateOptions{})
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if model.calls != 4 { // 1 initial + 3 retries
		t.Errorf("expected 4 calls, got %d", model.calls)
	}
}
