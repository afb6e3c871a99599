package session

import "time"

// Speaker identifies who authored a message.
type Speaker string

const (
	SpeakerUser   Speaker = "user"
	SpeakerAgent  Speaker = "agent"
	SpeakerSystem Speaker = "system"
)

// MessageStatus tracks delivery state of a single message.
type MessageStatus string

const (
	MessagePending  MessageStatus = "pending"
	MessageComplete MessageStatus = "complete"
	MessageError    MessageStatus = "error"
)

// Severity classifies system messages for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ActionStatus tracks a tool action lifecycle inside a message.
type ActionStatus string

const (
	ActionRunning ActionStatus = "running"
	ActionSuccess ActionStatus = "success"
	ActionError   ActionStatus = "error"
)

// MessageAction is one tool invocation displayed under an agent message.
// Identity is the run id; updates for the same id are last-write-wins.
type MessageAction struct {
	ID     string
	Name   string
	Status ActionStatus
	Detail string
	Input  any
}

// Message is a single transcript entry.
type Message struct {
	ID            string
	Speaker       Speaker
	Content       string
	Status        MessageStatus
	Timestamp     time.Time
	Severity      Severity
	Hidden        bool
	Reasoning     string
	Answer        string
	Actions       []MessageAction
	ShowReasoning *bool
}

// Status is the session-level activity state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusThinking Status = "thinking"
	StatusError    Status = "error"
)

// State is the conversation state owned by the session controller and
// mutated only through Reduce.
type State struct {
	Messages       []Message
	Status         Status
	Error          string
	TokenUsage     *TokenUsage
	ContextPercent *int
	UsageHistory   []TokenUsage
}

// InitialState returns a fresh idle session.
func InitialState() State {
	return State{Status: StatusIdle}
}

// ActionKind identifies the reducer action type.
type ActionKind int

const (
	ActionAddMessage ActionKind = iota
	ActionUpdateMessage
	ActionSetStatus
	ActionResetError
	ActionResetSession
	ActionResetUsage
	ActionUndoLastTurn
	ActionUpdateUsage
)

// MessagePatch is a partial update for one message; nil fields are left
// unchanged.
type MessagePatch struct {
	Content       *string
	Status        *MessageStatus
	Severity      *Severity
	Hidden        *bool
	Reasoning     *string
	Answer        *string
	Actions       []MessageAction
	ShowReasoning *bool
}

// Action carries a reducer transition payload.
type Action struct {
	Kind          ActionKind
	Message       Message
	ID            string
	Patch         MessagePatch
	Status        Status
	Error         string
	Delta         TokenUsage
	ContextWindow int
}

// AddMessage appends a message to the transcript.
func AddMessage(message Message) Action {
	return Action{Kind: ActionAddMessage, Message: message}
}

// UpdateMessage patches the message with the given id.
func UpdateMessage(id string, patch MessagePatch) Action {
	return Action{Kind: ActionUpdateMessage, ID: id, Patch: patch}
}

// SetStatus sets the session activity state and optional error text.
func SetStatus(status Status, errText string) Action {
	return Action{Kind: ActionSetStatus, Status: status, Error: errText}
}

// ResetError clears the error and returns to idle.
func ResetError() Action {
	return Action{Kind: ActionResetError}
}

// ResetSession restores the initial state.
func ResetSession() Action {
	return Action{Kind: ActionResetSession}
}

// ResetUsage clears token accounting without touching messages.
func ResetUsage() Action {
	return Action{Kind: ActionResetUsage}
}

// UndoLastTurn removes the most recent user/agent exchange and refunds its
// usage.
func UndoLastTurn(contextWindow int) Action {
	return Action{Kind: ActionUndoLastTurn, ContextWindow: contextWindow}
}

// UpdateUsage accumulates one turn's token delta.
func UpdateUsage(delta TokenUsage, contextWindow int) Action {
	return Action{Kind: ActionUpdateUsage, Delta: delta, ContextWindow: contextWindow}
}

// Reduce applies an action to the session state and returns the next state.
// It never mutates its input.
func Reduce(state State, action Action) State {
	switch action.Kind {
	case ActionAddMessage:
		messages := make([]Message, 0, len(state.Messages)+1)
		messages = append(messages, state.Messages...)
		messages = append(messages, action.Message)
		state.Messages = messages
		return state
	case ActionUpdateMessage:
		messages := make([]Message, len(state.Messages))
		for i, message := range state.Messages {
			if message.ID == action.ID {
				message = applyPatch(message, action.Patch)
			}
			messages[i] = message
		}
		state.Messages = messages
		return state
	case ActionSetStatus:
		state.Status = action.Status
		state.Error = action.Error
		return state
	case ActionResetError:
		state.Error = ""
		state.Status = StatusIdle
		return state
	case ActionResetSession:
		return InitialState()
	case ActionResetUsage:
		state.TokenUsage = nil
		state.ContextPercent = nil
		state.UsageHistory = nil
		return state
	case ActionUpdateUsage:
		usage := AccumulateUsage(state.TokenUsage, action.Delta)
		state.TokenUsage = &usage
		state.ContextPercent = ContextPercent(&usage, action.ContextWindow)
		history := make([]TokenUsage, 0, len(state.UsageHistory)+1)
		history = append(history, state.UsageHistory...)
		history = append(history, action.Delta)
		state.UsageHistory = history
		return state
	case ActionUndoLastTurn:
		if len(state.Messages) == 0 {
			return state
		}
		messages := make([]Message, len(state.Messages))
		copy(messages, state.Messages)
		removedUser := false
		removedAgent := false
		for len(messages) > 0 && (!removedUser || !removedAgent) {
			last := messages[len(messages)-1]
			messages = messages[:len(messages)-1]
			if last.Speaker == SpeakerAgent && !removedAgent {
				removedAgent = true
			} else if last.Speaker == SpeakerUser && !removedUser {
				removedUser = true
			}
		}
		var lastDelta *TokenUsage
		if len(state.UsageHistory) > 0 {
			delta := state.UsageHistory[len(state.UsageHistory)-1]
			lastDelta = &delta
			state.UsageHistory = append([]TokenUsage{}, state.UsageHistory[:len(state.UsageHistory)-1]...)
		}
		state.Messages = messages
		state.TokenUsage = SubtractUsage(state.TokenUsage, lastDelta)
		state.ContextPercent = ContextPercent(state.TokenUsage, action.ContextWindow)
		state.Status = StatusIdle
		state.Error = ""
		return state
	default:
		return state
	}
}

// applyPatch merges non-nil patch fields into a message.
func applyPatch(message Message, patch MessagePatch) Message {
	if patch.Content != nil {
		message.Content = *patch.Content
	}
	if patch.Status != nil {
		message.Status = *patch.Status
	}
	if patch.Severity != nil {
		message.Severity = *patch.Severity
	}
	if patch.Hidden != nil {
		message.Hidden = *patch.Hidden
	}
	if patch.Reasoning != nil {
		message.Reasoning = *patch.Reasoning
	}
	if patch.Answer != nil {
		message.Answer = *patch.Answer
	}
	if patch.Actions != nil {
		message.Actions = patch.Actions
	}
	if patch.ShowReasoning != nil {
		message.ShowReasoning = patch.ShowReasoning
	}
	return message
}
