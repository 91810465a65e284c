package middleware

import (
	"context"
	"time"

	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
)

// LogEntry is a single request/response event emitted by LoggingMiddleware.
type LogEntry struct {
	Timestamp time.Time
	Provider  string
	ModelID   string
	Op        string // "generate" or "stream"
	Duration  time.Duration
	Usage     types.Usage
	Error     string

	// Prompt and Response are only populated when LoggingConfig.IncludeBody
	// is set; logging request/response bodies by default would leak
	// conversation content into whatever sink the caller wires up.
	Prompt   *types.Prompt
	Response string
}

// Logger receives LogEntry values from LoggingMiddleware.
type Logger interface {
	Log(entry LogEntry)
}

// LoggerFunc adapts a function to the Logger interface.
type LoggerFunc func(entry LogEntry)

// Log implements Logger.
func (f LoggerFunc) Log(entry LogEntry) { f(entry) }

// LoggingConfig configures LoggingMiddleware.
type LoggingConfig struct {
	// Logger receives every request/response event. Required.
	Logger Logger

	// IncludeBody, when true, attaches the prompt and response text to the
	// LogEntry. Off by default.
	IncludeBody bool
}

// LoggingMiddleware emits a LogEntry for every generate/stream call. It
// never mutates params or results; logging is purely an observer.
func LoggingMiddleware(cfg LoggingConfig) *LanguageModelMiddleware {
	return &LanguageModelMiddleware{
		SpecificationVersion: "v3",
		WrapGenerate: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (*types.GenerateResult, error) {
			start := time.Now()
			result, err := doGenerate()
			entry := LogEntry{
				Timestamp: start,
				Provider:  model.Provider(),
				ModelID:   model.ModelID(),
				Op:        "generate",
				Duration:  time.Since(start),
			}
			if cfg.IncludeBody {
				entry.Prompt = &params.Prompt
			}
			if err != nil {
				entry.Error = err.Error()
			} else {
				entry.Usage = result.Usage
				if cfg.IncludeBody {
					entry.Response = result.Text
				}
			}
			cfg.Logger.Log(entry)
			return result, err
		},
		WrapStream: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (provider.TextStream, error) {
			start := time.Now()
			stream, err := doStream()
			entry := LogEntry{
				Timestamp: start,
				Provider:  model.Provider(),
				ModelID:   model.ModelID(),
				Op:        "stream",
				Duration:  time.Since(start),
			}
			if cfg.IncludeBody {
				entry.Prompt = &params.Prompt
			}
			if err != nil {
				entry.Error = err.Error()
			}
			cfg.Logger.Log(entry)
			return stream, err
		},
	}
}
