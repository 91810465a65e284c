package streaming

import (
	"fmt"

	"github.com/haloforge/aikit/pkg/provider"
)

// blockKind distinguishes the three id-scoped block lifecycles a stream can
// interleave (text, reasoning, tool-input).
type blockKind int

const (
	blockText blockKind = iota
	blockReasoning
	blockToolInput
)

// BlockAssembler enforces the start/delta*/end lifecycle for text,
// reasoning and tool-input blocks so provider adapters that receive raw,
// flat delta frames (keyed only by an index or id, with no explicit
// start/end markers of their own) don't each have to reimplement that
// bookkeeping. Feed it raw deltas via Text/Reasoning/ToolInputDelta and it
// synthesizes the missing *Start event the first time an id is seen and the
// matching *End event when the caller calls Finish or opens a different id
// under the same index.
//
// BlockAssembler is not safe for concurrent use; a stream has exactly one
// consumer pulling events, per TextStream's contract.
type BlockAssembler struct {
	open map[string]blockKind
	// pending holds synthesized events not yet returned to the caller:
	// a delta call that opens a new block queues [start, delta] and the
	// caller drains pending before the underlying parser is asked for more.
	pending []*provider.StreamEvent
}

// NewBlockAssembler creates an empty BlockAssembler.
func NewBlockAssembler() *BlockAssembler {
	return &BlockAssembler{open: make(map[string]blockKind)}
}

// TextDelta records a text delta for block id, synthesizing a text-start
// event first if id is not already open. Returns the events to emit, in
// order.
func (a *BlockAssembler) TextDelta(id, text string) []*provider.StreamEvent {
	return a.delta(id, blockText, provider.StreamEventTextStart, provider.StreamEventTextDelta, text)
}

// ReasoningDelta records a reasoning delta for block id, synthesizing a
// reasoning-start event first if id is not already open.
func (a *BlockAssembler) ReasoningDelta(id, text string) []*provider.StreamEvent {
	return a.delta(id, blockReasoning, provider.StreamEventReasoningStart, provider.StreamEventReasoningDelta, text)
}

// ToolInputDelta records a tool-input argument fragment for block id,
// synthesizing a tool-input-start event first if id is not already open.
func (a *BlockAssembler) ToolInputDelta(id, text string) []*provider.StreamEvent {
	return a.delta(id, blockToolInput, provider.StreamEventToolInputStart, provider.StreamEventToolInputDelta, text)
}

func (a *BlockAssembler) delta(id string, kind blockKind, startKind, deltaKind provider.StreamEventKind, text string) []*provider.StreamEvent {
	var events []*provider.StreamEvent
	if existing, ok := a.open[id]; !ok {
		a.open[id] = kind
		events = append(events, &provider.StreamEvent{Type: startKind, ID: id})
	} else if existing != kind {
		// Same id reused for a different block kind: close the old one
		// before opening the new one rather than silently reclassifying it.
		events = append(events, a.endEvent(id, existing)...)
		a.open[id] = kind
		events = append(events, &provider.StreamEvent{Type: startKind, ID: id})
	}
	events = append(events, &provider.StreamEvent{Type: deltaKind, ID: id, Text: text})
	return events
}

// ToolInputEnd closes a tool-input block, attaching the assembled call.
func (a *BlockAssembler) ToolInputEnd(id string, call *provider.StreamEvent) []*provider.StreamEvent {
	if _, ok := a.open[id]; !ok {
		return nil
	}
	delete(a.open, id)
	call.Type = provider.StreamEventToolInputEnd
	call.ID = id
	return []*provider.StreamEvent{call}
}

// Finish closes every still-open block (in an unspecified but stable
// order) and returns the close events. Called once, right before the
// stream's terminal finish event, so a provider that never sends explicit
// end markers still satisfies the block-lifecycle invariant.
func (a *BlockAssembler) Finish() []*provider.StreamEvent {
	var events []*provider.StreamEvent
	for id, kind := range a.open {
		events = append(events, a.endEvent(id, kind)...)
		delete(a.open, id)
	}
	return events
}

func (a *BlockAssembler) endEvent(id string, kind blockKind) []*provider.StreamEvent {
	switch kind {
	case blockText:
		return []*provider.StreamEvent{{Type: provider.StreamEventTextEnd, ID: id}}
	case blockReasoning:
		return []*provider.StreamEvent{{Type: provider.StreamEventReasoningEnd, ID: id}}
	case blockToolInput:
		return []*provider.StreamEvent{{Type: provider.StreamEventToolInputEnd, ID: id}}
	default:
		panic(fmt.Sprintf("streaming: unknown block kind %d", kind))
	}
}
