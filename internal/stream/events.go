package stream

import "io"

// Kind identifies a raw lifecycle event from the model/tool runtime.
type Kind int

const (
	// KindModelStream carries an incremental model content chunk.
	KindModelStream Kind = iota
	// KindModelEnd carries the terminal chunk with final usage metadata.
	KindModelEnd
	// KindToolStart announces a tool invocation.
	KindToolStart
	// KindToolEnd delivers a tool's output payload.
	KindToolEnd
	// KindToolError delivers a tool failure payload.
	KindToolError
)

// Event is one raw lifecycle record. Run ids are opaque and unique only
// within a single streaming session.
type Event struct {
	Kind     Kind
	Name     string
	RunID    string
	Content  any
	Input    any
	Output   any
	Usage    map[string]any
	Metadata map[string]any
}

// Source yields raw lifecycle events in arrival order. Recv returns io.EOF
// once the turn is complete; any other error aborts interpretation.
type Source interface {
	Recv() (Event, error)
}

// ReplaySource exposes a fixed event list as a Source. Used by tests and the
// demo command.
type ReplaySource struct {
	events []Event
	index  int
}

// NewReplaySource builds a ReplaySource over the given events.
func NewReplaySource(events []Event) *ReplaySource {
	return &ReplaySource{events: events}
}

// Recv returns the next event or io.EOF when complete.
func (s *ReplaySource) Recv() (Event, error) {
	if s.index >= len(s.events) {
		return Event{}, io.EOF
	}
	event := s.events[s.index]
	s.index++
	return event, nil
}
