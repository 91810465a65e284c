package mistral

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	internalhttp "github.com/haloforge/aikit/pkg/internal/http"
	providererrors "github.com/haloforge/aikit/pkg/provider/errors"
	"github.com/haloforge/aikit/pkg/provider"
	"github.com/haloforge/aikit/pkg/provider/types"
	"github.com/haloforge/aikit/pkg/providerutils/prompt"
	"github.com/haloforge/aikit/pkg/providerutils/streaming"
	"github.com/haloforge/aikit/pkg/providerutils/tool"
)

// LanguageModel implements the provider.LanguageModel interface for Mistral AI
type LanguageModel struct {
	provider *Provider
	modelID  string
}

// NewLanguageModel creates a new Mistral AI language model
func NewLanguageModel(provider *Provider, modelID string) *LanguageModel {
	return &LanguageModel{
		provider: provider,
		modelID:  modelID,
	}
}

// SpecificationVersion returns the specification version
func (m *LanguageModel) SpecificationVersion() string {
	return "v3"
}

// Provider returns the provider name
func (m *LanguageModel) Provider() string {
	return "mistral"
}

// ModelID returns the model ID
func (m *LanguageModel) ModelID() string {
	return m.modelID
}

// SupportsTools returns whether the model supports tool calling
func (m *LanguageModel) SupportsTools() bool {
	return true
}

// SupportsStructuredOutput returns whether the model supports structured output
func (m *LanguageModel) SupportsStructuredOutput() bool {
	return true
}

// SupportsImageInput returns whether the model accepts image inputs
func (m *LanguageModel) SupportsImageInput() bool {
	return false
}

// DoGenerate performs non-streaming text generation
func (m *LanguageModel) DoGenerate(ctx context.Context, opts *provider.GenerateOptions) (*types.GenerateResult, error) {
	reqBody := m.buildRequestBody(opts, false)
	var response mistralResponse
	err := m.provider.client.PostJSON(ctx, "/v1/chat/completions", reqBody, &response)
	if err != nil {
		return nil, m.handleError(err)
	}
	return m.convertResponse(response), nil
}

// DoStream performs streaming text generation
func (m *LanguageModel) DoStream(ctx context.Context, opts *provider.GenerateOptions) (provider.TextStream, error) {
	reqBody := m.buildRequestBody(opts, true)
	httpResp, err := m.provider.client.DoStream(ctx, internalhttp.Request{
		Method: http.MethodPost,
		Path:   "/v1/chat/completions",
		Body:   reqBody,
		Headers: map[string]string{
			"Accept": "text/event-stream",
		},
	})
	if err != nil {
		return nil, m.handleError(err)
	}
	return newMistralStream(httpResp.Body), nil
}

func (m *LanguageModel) buildRequestBody(opts *provider.GenerateOptions, stream bool) map[string]interface{} {
	body := map[string]interface{}{
		"model":  m.modelID,
		"stream": stream,
	}
	if opts.Prompt.IsMessages() {
		body["messages"] = prompt.ToOpenAIMessages(opts.Prompt.Messages)
	} else if opts.Prompt.IsSimple() {
		body["messages"] = prompt.ToOpenAIMessages(prompt.SimpleTextToMessages(opts.Prompt.Text))
	}
	if opts.Prompt.System != "" {
		messages := body["messages"].([]map[string]interface{})
		systemMsg := map[string]interface{}{
			"role":    "system",
			"content": opts.Prompt.System,
		}
		body["messages"] = append([]map[string]interface{}{systemMsg}, messages...)
	}
	if opts.MaxTokens != nil {
		body["max_tokens"] = *opts.MaxTokens
	}
	if opts.Temperature != nil {
		body["temperature"] = *opts.Temperature
	}
	if opts.TopP != nil {
		body["top_p"] = *opts.TopP
	}
	if opts.StopSequences != nil && len(opts.StopSequences) > 0 {
		body["stop"] = opts.StopSequences
	}
	if opts.Seed != nil {
		body["random_seed"] = *opts.Seed
	}
	if len(opts.Tools) > 0 {
		body["tools"] = tool.ToOpenAIFormat(opts.Tools)
		if opts.ToolChoice.Type != "" {
			body["tool_choice"] = tool.ConvertToolChoiceToOpenAI(opts.ToolChoice)
		}
	}
	if opts.ResponseFormat != nil {
		body["response_format"] = map[string]interface{}{
			"type": opts.ResponseFormat.Type,
		}
	}
	return body
}

func (m *LanguageModel) convertResponse(response mistralResponse) *types.GenerateResult {
	if len(response.Choices) == 0 {
		return &types.GenerateResult{
			Text:         "",
			FinishReason: types.FinishReasonOther,
		}
	}
	choice := response.Choices[0]
	result := &types.GenerateResult{
		Text:         choice.Message.Content,
		FinishReason: convertFinishReason(choice.FinishReason),
		Usage:        convertMistralUsage(response.Usage),
		RawResponse:  response,
	}
	if len(choice.Message.ToolCalls) > 0 {
		result.ToolCalls = make([]types.ToolCall, len(choice.Message.ToolCalls))
		for i, tc := range choice.Message.ToolCalls {
			var args map[string]interface{}
			if tc.Function.Arguments != "" {
				_ = json.Unmarshal([]byte(tc.Function.Arguments), &args)
			}
			result.ToolCalls[i] = types.ToolCall{
				ID:        tc.ID,
				ToolName:  tc.Function.Name,
				Arguments: args,
			}
		}
	}
	return result
}

func (m *LanguageModel) handleError(err error) error {
	return providererrors.NewProviderError("mistral", 0, "", err.Error(), err)
}

// convertMistralUsage converts Mistral usage to detailed Usage struct
// Implements v6.0 detailed token tracking with optional detailed fields
func convertMistralUsage(usage mistralUsage) types.Usage {
	promptTokens := int64(usage.PromptTokens)
	completionTokens := int64(usage.CompletionTokens)
	totalTokens := int64(usage.TotalTokens)

	result := types.Usage{
		InputTokens:  &promptTokens,
		OutputTokens: &completionTokens,
		TotalTokens:  &totalTokens,
	}

	// Parse detailed token information if available
	var cachedTokens int64
	if usage.PromptTokensDetails != nil && usage.PromptTokensDetails.CachedTokens != nil {
		cachedTokens = int64(*usage.PromptTokensDetails.CachedTokens)
	}
	var textTokens *int64
	var imageTokens *int64
	if usage.PromptTokensDetails != nil {
		if usage.PromptTokensDetails.TextTokens != nil {
			textVal := int64(*usage.PromptTokensDetails.TextTokens)
			textTokens = &textVal
		}
		if usage.PromptTokensDetails.ImageTokens != nil {
			imageVal := int64(*usage.PromptTokensDetails.ImageTokens)
			imageTokens = &imageVal
		}
	}
	var reasoningTokens int64
	if usage.CompletionTokensDetails != nil && usage.CompletionTokensDetails.ReasoningTokens != nil {
		reasoningTokens = int64(*usage.CompletionTokensDetails.ReasoningTokens)
	}

	// Set input details
	if cachedTokens > 0 || textTokens != nil || imageTokens != nil {
		noCacheTokens := promptTokens - cachedTokens
		result.InputDetails = &types.InputTokenDetails{
			NoCacheTokens:    &noCacheTokens,
			CacheReadTokens:  &cachedTokens,
			CacheWriteTokens: nil,
			TextTokens:       textTokens,
			ImageTokens:      imageTokens,
		}
	} else {
		result.InputDetails = &types.InputTokenDetails{
			NoCacheTokens:    &promptTokens,
			CacheReadTokens:  nil,
			CacheWriteTokens: nil,
		}
	}

	// Set output details
	if reasoningTokens > 0 {
		textOutputTokens := completionTokens - reasoningTokens
		result.OutputDetails = &types.OutputTokenDetails{
			TextTokens:      &textOutputTokens,
			ReasoningTokens: &reasoningTokens,
		}
	} else {
		result.OutputDetails = &types.OutputTokenDetails{
			TextTokens:      &completionTokens,
			ReasoningTokens: nil,
		}
	}

	// Store raw usage
	result.Raw = map[string]interface{}{
		"prompt_tokens":     usage.PromptTokens,
		"completion_tokens": usage.CompletionTokens,
		"total_tokens":      usage.TotalTokens,
	}

	return result
}

func convertFinishReason(reason string) types.FinishReason {
	switch reason {
	case "stop":
		return types.FinishReasonStop
	case "length":
		return types.FinishReasonLength
	case "tool_calls":
		return types.FinishReasonToolCalls
	case "model_length":
		return types.FinishReasonLength
	default:
		return types.FinishReasonOther
	}
}

type mistralResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int    `json:"index"`
		FinishReason string `json:"finish_reason"`
		Message      struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			ToolCalls []struct {
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
	Usage mistralUsage `json:"usage"`
}

// mistralUsage represents Mistral usage information
type mistralUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// Detailed token breakdown (OpenAI-compatible, if supported)
	PromptTokensDetails *struct {
		CachedTokens *int `json:"cached_tokens,omitempty"`
		AudioTokens  *int `json:"audio_tokens,omitempty"`
		TextTokens   *int `json:"text_tokens,omitempty"`
		ImageTokens  *int `json:"image_tokens,omitempty"`
	} `json:"prompt_tokens_details,omitempty"`

	CompletionTokensDetails *struct {
		ReasoningTokens          *int `json:"reasoning_tokens,omitempty"`
		AcceptedPredictionTokens *int `json:"accepted_prediction_tokens,omitempty"`
		RejectedPredictionTokens *int `json:"rejected_prediction_tokens,omitempty"`
	} `json:"completion_tokens_details,omitempty"`
}

type mistralStreamChunk struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Index        int    `json:"index"`
		FinishReason string `json:"finish_reason"`
		Delta        struct {
			Role      string `json:"role"`
			Content   string `json:"content"`
			ToolCalls []struct {
				Index    int    `json:"index"`
				ID       string `json:"id"`
				Type     string `json:"type"`
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *mistralUsage `json:"usage,omitempty"`
}

// mistralStream turns Mistral's flat SSE delta frames (one text chunk or
// tool-call fragment per event, indexed rather than id-scoped) into the
// block-lifecycle StreamEvent sequence every consumer expects, using
// streaming.BlockAssembler to synthesize the start/end events Mistral's
// wire format never sends.
type mistralStream struct {
	reader    io.ReadCloser
	parser    *streaming.SSEParser
	assembler *streaming.BlockAssembler
	toolCalls map[int]*toolCallAccumulator
	pending   []*provider.StreamEvent
	usage     *types.Usage
	err       error
}

type toolCallAccumulator struct {
	id        string
	name      string
	arguments string
}

func newMistralStream(reader io.ReadCloser) *mistralStream {
	return &mistralStream{
		reader:    reader,
		parser:    streaming.NewSSEParser(reader),
		assembler: streaming.NewBlockAssembler(),
		toolCalls: make(map[int]*toolCallAccumulator),
	}
}

func (s *mistralStream) Read(p []byte) (n int, err error) { return s.reader.Read(p) }
func (s *mistralStream) Close() error                     { return s.reader.Close() }

func (s *mistralStream) Next() (*provider.StreamEvent, error) {
	if len(s.pending) > 0 {
		event := s.pending[0]
		s.pending = s.pending[1:]
		return event, nil
	}
	if s.err != nil {
		return nil, s.err
	}

	for {
		event, err := s.parser.Next()
		if err != nil {
			s.err = err
			return nil, err
		}
		if streaming.IsStreamDone(event) {
			s.queueFinish(types.FinishReasonUnknown)
			s.err = io.EOF
			return s.popPending()
		}

		var chunkData mistralStreamChunk
		if err := json.Unmarshal([]byte(event.Data), &chunkData); err != nil {
			s.err = fmt.Errorf("failed to parse stream chunk: %w", err)
			return nil, s.err
		}
		if chunkData.Usage != nil {
			usage := convertMistralUsage(*chunkData.Usage)
			s.usage = &usage
		}
		if len(chunkData.Choices) == 0 {
			continue
		}

		choice := chunkData.Choices[0]
		if choice.Delta.Content != "" {
			id := fmt.Sprintf("%d", choice.Index)
			s.pending = s.assembler.TextDelta(id, choice.Delta.Content)
		}
		for _, tc := range choice.Delta.ToolCalls {
			acc, ok := s.toolCalls[tc.Index]
			if !ok {
				acc = &toolCallAccumulator{id: tc.ID, name: tc.Function.Name}
				s.toolCalls[tc.Index] = acc
			}
			if tc.ID != "" {
				acc.id = tc.ID
			}
			if tc.Function.Name != "" {
				acc.name = tc.Function.Name
			}
			acc.arguments += tc.Function.Arguments

			id := fmt.Sprintf("tool-%d", tc.Index)
			s.pending = append(s.pending, s.assembler.ToolInputDelta(id, tc.Function.Arguments)...)
		}
		if choice.FinishReason != "" {
			s.queueFinish(convertFinishReason(choice.FinishReason))
		}

		if len(s.pending) > 0 {
			return s.popPending()
		}
	}
}

// queueFinish appends the block-close and terminal finish events to
// pending. It does not set s.err: the caller still needs to drain pending
// with nil errors before the next Next() call finally returns io.EOF.
func (s *mistralStream) queueFinish(reason types.FinishReason) {
	s.pending = append(s.pending, s.closeToolCalls()...)
	s.pending = append(s.pending, s.assembler.Finish()...)
	s.pending = append(s.pending, &provider.StreamEvent{
		Type:         provider.StreamEventFinish,
		FinishReason: reason,
		Usage:        s.usage,
	})
}

// popPending pops the next queued event. Always returns a nil error, even
// once s.err is set: the terminal error (io.EOF or otherwise) only surfaces
// on the next Next() call, once pending has fully drained, so a real event
// and io.EOF are never returned together.
func (s *mistralStream) popPending() (*provider.StreamEvent, error) {
	event := s.pending[0]
	s.pending = s.pending[1:]
	return event, nil
}

func (s *mistralStream) closeToolCalls() []*provider.StreamEvent {
	var events []*provider.StreamEvent
	for index, acc := range s.toolCalls {
		var args map[string]interface{}
		if acc.arguments != "" {
			_ = json.Unmarshal([]byte(acc.arguments), &args)
		}
		id := fmt.Sprintf("tool-%d", index)
		events = append(events, s.assembler.ToolInputEnd(id, &provider.StreamEvent{
			ToolCall: &types.ToolCall{ID: acc.id, ToolName: acc.name, Arguments: args},
		})...)
	}
	s.toolCalls = make(map[int]*toolCallAccumulator)
	return events
}

func (s *mistralStream) Err() error {
	if s.err == io.EOF {
		return nil
	}
	return s.err
}
