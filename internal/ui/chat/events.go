package chat

import (
	"agentui/internal/session"
	"agentui/internal/stream"
)

// EventKind identifies the type of chat UI event.
type EventKind int

const (
	// EventStructured delivers one interpreter event from the active turn.
	EventStructured EventKind = iota
	// EventTurnDone replaces the transcript with the committed turn state.
	EventTurnDone
	// EventState replaces the transcript outside a turn (reset, undo).
	EventState
	// EventNotice shows a one-line system notice.
	EventNotice
)

// Event carries a UI update payload.
type Event struct {
	Kind       EventKind
	Structured stream.StructuredEvent
	State      session.State
	Notice     string
	Err        error
}
