package middleware

import (
	"context"
	"time"

	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
	"github.com/haloforge/aikit/pkg/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// TelemetryRecord is a single generate/stream event handed to TelemetryConfig.Sink.
type TelemetryRecord struct {
	Provider     string
	ModelID      string
	Op           string // "generate" or "stream"
	Timestamp    time.Time
	DurationMs   int64
	Status       string // "ok" or "error"
	InputTokens  int64
	OutputTokens int64
}

// TelemetryConfig configures TelemetryMiddleware.
type TelemetryConfig struct {
	// Settings controls span emission: whether telemetry is enabled at all,
	// whether inputs/outputs are recorded, and which tracer backs the spans.
	// Nil is treated as telemetry.DefaultSettings() with IsEnabled false.
	Settings *telemetry.Settings

	// Sink, if set, additionally receives a TelemetryRecord for every
	// generate/stream call, independent of whether Settings.IsEnabled is
	// true. This lets callers collect simple metrics without standing up
	// an OpenTelemetry collector.
	Sink func(TelemetryRecord)
}

// TelemetryMiddleware wraps generate/stream calls in an OpenTelemetry span
// (built on telemetry.RecordSpan, the same helper the rest of the SDK uses
// to instrument provider calls) and, when a Sink is configured, emits a
// plain TelemetryRecord alongside it.
func TelemetryMiddleware(cfg TelemetryConfig) *LanguageModelMiddleware {
	settings := cfg.Settings
	if settings == nil {
		settings = telemetry.DefaultSettings()
	}
	tracer := telemetry.GetTracer(settings)

	return &LanguageModelMiddleware{
		SpecificationVersion: "v3",
		WrapGenerate: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (*types.GenerateResult, error) {
			start := time.Now()
			attrs := telemetry.GetBaseAttributes(model.Provider(), model.ModelID(), settings, nil)

			result, err := telemetry.RecordSpan(ctx, tracer, telemetry.SpanOptions{
				Name:        "ai.generateText",
				Attributes:  attrs,
				EndWhenDone: true,
			}, func(spanCtx context.Context, span trace.Span) (*types.GenerateResult, error) {
				res, err := doGenerate()
				if err == nil && settings.RecordOutputs {
					telemetry.AddSettingsAttributes(span, "ai.response", map[string]interface{}{
						"text":         res.Text,
						"finishReason": string(res.FinishReason),
					})
				}
				return res, err
			})

			emitTelemetryRecord(cfg.Sink, model, "generate", start, result, err)
			return result, err
		},
		WrapStream: func(ctx context.Context, doGenerate func() (*types.GenerateResult, error), doStream func() (provider.TextStream, error), params *provider.GenerateOptions, model provider.LanguageModel) (provider.TextStream, error) {
			start := time.Now()
			attrs := telemetry.GetBaseAttributes(model.Provider(), model.ModelID(), settings, nil)

			stream, err := telemetry.RecordSpan(ctx, tracer, telemetry.SpanOptions{
				Name:        "ai.streamText",
				Attributes:  attrs,
				EndWhenDone: true,
			}, func(spanCtx context.Context, span trace.Span) (provider.TextStream, error) {
				return doStream()
			})

			emitTelemetryRecord(cfg.Sink, model, "stream", start, nil, err)
			return stream, err
		},
	}
}

func emitTelemetryRecord(sink func(TelemetryRecord), model provider.LanguageModel, op string, start time.Time, result *types.GenerateResult, err error) {
	if sink == nil {
		return
	}

	record := TelemetryRecord{
		Provider:   model.Provider(),
		ModelID:    model.ModelID(),
		Op:         op,
		Timestamp:  start,
		DurationMs: time.Since(start).Milliseconds(),
		Status:     "ok",
	}
	if err != nil {
		record.Status = "error"
	}
	if result != nil {
		if result.Usage.InputTokens != nil {
			record.InputTokens = *result.Usage.InputTokens
		}
		if result.Usage.OutputTokens != nil {
			record.OutputTokens = *result.Usage.OutputTokens
		}
	}

	sink(record)
}
