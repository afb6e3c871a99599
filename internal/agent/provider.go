package agent

import (
	"context"

	"agentui/internal/stream"
)

// Input is the assembled request for one turn.
type Input struct {
	SystemPrompt   string
	Content        string
	Model          string
	RecursionLimit int
}

// Provider is the external LLM/tool runtime behind one turn. Stream starts
// the turn and returns the raw lifecycle event source; the caller drains it
// to completion.
type Provider interface {
	Stream(ctx context.Context, input Input) (stream.Source, error)
}

// ScriptProvider replays a fixed event list for every turn. Used by tests
// and by plain-mode demos without a live runtime.
type ScriptProvider struct {
	Events []stream.Event
}

// Stream returns a replay source over the scripted events.
func (p ScriptProvider) Stream(_ context.Context, _ Input) (stream.Source, error) {
	return stream.NewReplaySource(p.Events), nil
}
