package provider

import (
	"context"
	"io"

	"github.com/haloforge/aikit/pkg/provider/types"
)

// LanguageModel represents a language model (V3 specification)
// This is the core interface that all language model providers must implement
type LanguageModel interface {
	// Metadata methods
	SpecificationVersion() string // Returns "v3" for V3 models
	Provider() string             // Returns the provider name (e.g., "openai", "anthropic")
	ModelID() string              // Returns the model ID (e.g., "gpt-4", "claude-3-opus")

	// Capability methods
	SupportsTools() bool            // Whether the model supports tool calling
	SupportsStructuredOutput() bool // Whether the model supports structured output (JSON mode)
	SupportsImageInput() bool       // Whether the model accepts image inputs

	// Generation methods
	DoGenerate(ctx context.Context, opts *GenerateOptions) (*types.GenerateResult, error)
	DoStream(ctx context.Context, opts *GenerateOptions) (TextStream, error)
}

// GenerateOptions contains all options for text generation
type GenerateOptions struct {
	// Prompt for the model (either text or messages)
	Prompt types.Prompt

	// Temperature controls randomness (0.0 to 2.0, typically)
	Temperature *float64

	// Maximum number of tokens to generate
	MaxTokens *int

	// TopP (nucleus sampling) parameter
	TopP *float64

	// TopK parameter (for providers that support it)
	TopK *int

	// Frequency penalty (reduces repetition)
	FrequencyPenalty *float64

	// Presence penalty (encourages topic diversity)
	PresencePenalty *float64

	// Stop sequences that halt generation
	StopSequences []string

	// Tools available for the model to call
	Tools []types.Tool

	// Tool choice strategy
	ToolChoice types.ToolChoice

	// Response format (for structured output)
	ResponseFormat *ResponseFormat

	// Seed for deterministic generation
	Seed *int

	// Custom headers to send with the request
	Headers map[string]string

	// Maximum number of automatic tool call steps
	MaxSteps *int
}

// ResponseFormat specifies the format of the response
// Updated in v6.0 to support name and description for provider guidance
type ResponseFormat struct {
	// Type of response format ("text", "json", "json_object", "json_schema")
	Type string

	// Schema for JSON response (when Type is "json" or "json_schema")
	// Can be a map[string]interface{} (JSON Schema) or schema.Schema
	Schema interface{}

	// Name is an optional name for the output
	// Used by some providers (e.g., OpenAI, Anthropic) for additional LLM guidance
	Name string

	// Description is an optional description of the expected output
	// Used by some providers for additional LLM guidance
	Description string
}

// TextStream represents a streaming text response as a pull-based sequence
// of StreamEvents. It is the Go analogue of the block-lifecycle async
// iterator: a single consumer calls Next() until it returns io.EOF.
type TextStream interface {
	io.ReadCloser

	// Next returns the next event in the stream.
	// Returns io.EOF when the stream is complete.
	Next() (*StreamEvent, error)

	// Err returns any error that occurred during streaming
	Err() error
}

// StreamEventKind represents the kind of a StreamEvent. A stream is a
// sequence matching: response-metadata? (text|reasoning|tool-input)* finish
// where text/reasoning/tool-input blocks are each a start/delta*/end triple
// correlated by ID, source events may interleave freely, and exactly one
// finish event terminates the stream.
type StreamEventKind string

const (
	// StreamEventResponseMetadata carries the resolved model id and any
	// provider response id/timestamp, emitted at most once, before any block.
	StreamEventResponseMetadata StreamEventKind = "response-metadata"

	// StreamEventTextStart opens a text block identified by ID.
	StreamEventTextStart StreamEventKind = "text-start"
	// StreamEventTextDelta appends Text to the block identified by ID.
	StreamEventTextDelta StreamEventKind = "text-delta"
	// StreamEventTextEnd closes the text block identified by ID.
	StreamEventTextEnd StreamEventKind = "text-end"

	// StreamEventReasoningStart opens a reasoning block identified by ID.
	StreamEventReasoningStart StreamEventKind = "reasoning-start"
	// StreamEventReasoningDelta appends Text to the reasoning block.
	StreamEventReasoningDelta StreamEventKind = "reasoning-delta"
	// StreamEventReasoningEnd closes the reasoning block identified by ID.
	StreamEventReasoningEnd StreamEventKind = "reasoning-end"

	// StreamEventToolInputStart opens a tool-input block for a tool call
	// that is being streamed incrementally.
	StreamEventToolInputStart StreamEventKind = "tool-input-start"
	// StreamEventToolInputDelta appends a JSON argument fragment to Text.
	StreamEventToolInputDelta StreamEventKind = "tool-input-delta"
	// StreamEventToolInputEnd closes the tool-input block; the complete
	// ToolCall is attached so consumers that ignore deltas still get it.
	StreamEventToolInputEnd StreamEventKind = "tool-input-end"

	// StreamEventToolCall reports a complete, non-streamed tool call.
	StreamEventToolCall StreamEventKind = "tool-call"

	// StreamEventSource reports a citation/grounding source. May appear
	// anywhere in the stream and is not part of any block lifecycle.
	StreamEventSource StreamEventKind = "source"

	// StreamEventFinish is the terminal event, carrying usage and the
	// finish reason. Exactly one is emitted per stream.
	StreamEventFinish StreamEventKind = "finish"

	// StreamEventError reports a decoding/transport error observed mid-stream.
	StreamEventError StreamEventKind = "error"
)

// Deprecated aliases kept for source compatibility with call sites written
// against the flat chunk model; new code should use the StreamEvent* names.
const (
	ChunkTypeText      = StreamEventTextDelta
	ChunkTypeToolCall  = StreamEventToolCall
	ChunkTypeReasoning = StreamEventReasoningDelta
	ChunkTypeUsage     = StreamEventFinish
	ChunkTypeFinish    = StreamEventFinish
	ChunkTypeError     = StreamEventError
)

// ChunkType is a deprecated alias for StreamEventKind.
type ChunkType = StreamEventKind

// StreamChunk is a deprecated alias for StreamEvent.
type StreamChunk = StreamEvent

// StreamEvent represents a single event in a canonical generation stream.
type StreamEvent struct {
	// Type discriminates the event.
	Type StreamEventKind

	// ID correlates start/delta/end events belonging to the same block.
	// Empty for events that do not belong to a block (response-metadata,
	// tool-call, source, finish, error).
	ID string

	// Text carries the delta payload for text-delta, reasoning-delta, and
	// tool-input-delta events (for tool input, a JSON argument fragment).
	Text string

	// ToolCall carries the assembled tool call on tool-input-end and
	// tool-call events.
	ToolCall *types.ToolCall

	// Source carries citation/grounding information on source events.
	Source *types.SourceContent

	// ResponseMetadata carries model id / response id on
	// response-metadata events.
	ResponseMetadata *types.ResponseMetadata

	// Usage information, set on finish events.
	Usage *types.Usage

	// FinishReason, set on finish events. FinishReasonUnknown if the
	// provider's stream ended without ever reporting one.
	FinishReason types.FinishReason

	// Err carries the underlying error on error events.
	Err error
}

// EmbeddingModel represents an embedding model
type EmbeddingModel interface {
	// Metadata
	SpecificationVersion() string
	Provider() string
	ModelID() string

	// MaxEmbeddingsPerCall returns the maximum number of embeddings that can be
	// generated in a single API call. Returns 0 or negative for unlimited.
	MaxEmbeddingsPerCall() int

	// SupportsParallelCalls returns whether the model can handle multiple
	// embedding calls in parallel (for batch processing).
	SupportsParallelCalls() bool

	// Embedding methods
	DoEmbed(ctx context.Context, input string) (*types.EmbeddingResult, error)
	DoEmbedMany(ctx context.Context, inputs []string) (*types.EmbeddingsResult, error)
}

// ImageModel represents an image generation model
type ImageModel interface {
	// Metadata
	SpecificationVersion() string
	Provider() string
	ModelID() string

	// Image generation
	DoGenerate(ctx context.Context, opts *ImageGenerateOptions) (*types.ImageResult, error)
}

// ImageGenerateOptions contains options for image generation
type ImageGenerateOptions struct {
	// Text prompt for image generation
	Prompt string

	// Number of images to generate
	N *int

	// Size of the image (e.g., "1024x1024")
	Size string

	// Quality setting
	Quality string

	// Style setting
	Style string
}

// SpeechModel represents a speech synthesis model
type SpeechModel interface {
	// Metadata
	SpecificationVersion() string
	Provider() string
	ModelID() string

	// Speech synthesis
	DoGenerate(ctx context.Context, opts *SpeechGenerateOptions) (*types.SpeechResult, error)
}

// SpeechGenerateOptions contains options for speech synthesis
type SpeechGenerateOptions struct {
	// Text to convert to speech
	Text string

	// Voice to use
	Voice string

	// Speed of speech (0.25 to 4.0)
	Speed *float64
}

// TranscriptionModel represents a speech-to-text model
type TranscriptionModel interface {
	// Metadata
	SpecificationVersion() string
	Provider() string
	ModelID() string

	// Transcription
	DoTranscribe(ctx context.Context, opts *TranscriptionOptions) (*types.TranscriptionResult, error)
}

// TranscriptionOptions contains options for speech-to-text
type TranscriptionOptions struct {
	// Audio data to transcribe
	Audio []byte

	// MIME type of the audio
	MimeType string

	// Language of the audio (optional)
	Language string

	// Whether to include timestamps
	Timestamps bool
}
