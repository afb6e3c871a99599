package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"agentui/internal/commands"
	"agentui/internal/session"
	"agentui/internal/stream"
)

// Options configures the chat UI.
type Options struct {
	// NoColor disables ANSI styling.
	NoColor bool
}

// EventMsg wraps one controller event for the bubbletea loop.
type EventMsg struct {
	Event Event
}

// Model is the bubbletea model for the chat screen. The committed transcript
// lives in state; the in-flight turn is tracked separately in the live fields
// and folded into state when the turn completes.
type Model struct {
	events     <-chan Event
	controller *Controller

	state         session.State
	thinking      bool
	pendingPrompt string
	liveReasoning string
	liveActions   []session.MessageAction
	liveModel     string
	notice        string
	errText       string

	composer textinput.Model
	spin     spinner.Model
	width    int
	noColor  bool
}

// NewModel builds the initial chat model.
func NewModel(events <-chan Event, controller *Controller, opts Options) Model {
	composer := textinput.New()
	composer.Placeholder = "Ask something, or /model /new /undo /files /quit"
	composer.Prompt = "> "
	composer.Focus()
	spin := spinner.New()
	spin.Spinner = spinner.Dot
	return Model{
		events:     events,
		controller: controller,
		state:      session.InitialState(),
		composer:   composer,
		spin:       spin,
		noColor:    opts.NoColor,
	}
}

// Init starts the event pump, the spinner and the composer cursor.
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForEvent(m.events), m.spin.Tick, textinput.Blink)
}

// waitForEvent blocks for the next controller event.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return tea.Quit()
		}
		return EventMsg{Event: event}
	}
}

// Update handles one terminal or controller message.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		if typed.Width > 4 {
			m.composer.Width = typed.Width - 4
		}
		return m, nil
	case tea.KeyMsg:
		switch typed.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			return m.submit()
		}
	case EventMsg:
		m = applyEvent(m, typed.Event)
		return m, waitForEvent(m.events)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(msg)
	return m, cmd
}

// submit hands the composer content to the controller. Prompts are echoed
// immediately so the user sees their message while the turn streams.
func (m Model) submit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.composer.Value())
	if value == "" {
		return m, nil
	}
	if m.thinking {
		m.notice = "A turn is still running."
		return m, nil
	}
	m.composer.Reset()
	m.notice = ""
	if commands.Parse(value) == nil {
		m.thinking = true
		m.pendingPrompt = value
		m.liveReasoning = ""
		m.liveActions = nil
		m.errText = ""
	}
	if m.controller != nil {
		m.controller.Submit(value)
	}
	return m, nil
}

// applyEvent folds one controller event into the model.
func applyEvent(m Model, event Event) Model {
	switch event.Kind {
	case EventStructured:
		return applyStructured(m, event.Structured)
	case EventTurnDone:
		m.state = event.State
		m.thinking = false
		m.pendingPrompt = ""
		m.liveReasoning = ""
		m.liveActions = nil
		m.errText = ""
		if event.Err != nil {
			m.errText = event.Err.Error()
		}
		return m
	case EventState:
		m.state = event.State
		m.thinking = false
		m.pendingPrompt = ""
		m.liveReasoning = ""
		m.liveActions = nil
		m.errText = ""
		return m
	case EventNotice:
		m.notice = event.Notice
		return m
	default:
		return m
	}
}

// applyStructured folds one interpreter event into the live turn view.
func applyStructured(m Model, event stream.StructuredEvent) Model {
	switch event.Kind {
	case stream.StructuredPlan:
		m.liveReasoning = event.Text
	case stream.StructuredVisibility:
		if !event.Visible {
			m.liveReasoning = ""
		}
	case stream.StructuredAction:
		m.liveActions = upsertAction(m.liveActions, event.Action)
	case stream.StructuredModel:
		m.liveModel = event.Model
	}
	return m
}

// upsertAction replaces the action with a matching id or appends it,
// preserving first-seen order.
func upsertAction(actions []session.MessageAction, action session.MessageAction) []session.MessageAction {
	next := make([]session.MessageAction, len(actions))
	copy(next, actions)
	for i := range next {
		if next[i].ID == action.ID {
			next[i] = action
			return next
		}
	}
	return append(next, action)
}
