package chat

import (
	"context"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"agentui/internal/agent"
	"agentui/internal/commands"
	"agentui/internal/config"
	"agentui/internal/session"
	"agentui/internal/stream"
)

// Controller runs the chat UI and owns the authoritative session state.
// Turns execute one at a time; the composer is gated while one is active.
type Controller struct {
	events    chan Event
	program   *tea.Program
	done      chan struct{}
	closeOnce sync.Once
	runner    *agent.Runner
	state     session.State
	turning   atomic.Bool
}

// Start launches a chat UI controller that writes to stdout.
func Start(stdout io.Writer, runner *agent.Runner, opts Options) *Controller {
	if stdout == nil {
		stdout = os.Stdout
	}
	events := make(chan Event, 256)
	controller := &Controller{
		events: events,
		done:   make(chan struct{}),
		runner: runner,
		state:  session.InitialState(),
	}
	model := NewModel(events, controller, opts)
	program := tea.NewProgram(model, tea.WithOutput(stdout), tea.WithAltScreen())
	controller.program = program
	go func() {
		_ = program.Start()
		close(controller.done)
	}()
	return controller
}

// Close signals the UI to stop.
func (c *Controller) Close() {
	if c == nil {
		return
	}
	c.closeOnce.Do(func() {
		close(c.events)
	})
}

// Wait blocks until the UI has exited.
func (c *Controller) Wait() {
	if c == nil {
		return
	}
	<-c.done
}

// Submit handles one composer submission: slash commands synchronously,
// anything else as a background turn. Returns false when a turn is already
// running.
func (c *Controller) Submit(input string) bool {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return true
	}
	if cmd := commands.Parse(trimmed); cmd != nil {
		c.runCommand(cmd)
		return true
	}
	if !c.turning.CompareAndSwap(false, true) {
		return false
	}
	go c.runTurn(trimmed)
	return true
}

// runTurn executes one prompt and publishes the committed state.
func (c *Controller) runTurn(promptText string) {
	defer c.turning.Store(false)
	state, _, err := c.runner.RunTurn(context.Background(), c.state, promptText, func(event stream.StructuredEvent) {
		c.send(Event{Kind: EventStructured, Structured: event})
	})
	c.state = state
	c.send(Event{Kind: EventTurnDone, State: state, Err: err})
}

// runCommand applies a slash command to the session.
func (c *Controller) runCommand(cmd *commands.Command) {
	switch cmd.Kind {
	case commands.KindQuit, commands.KindExit:
		if c.program != nil {
			c.program.Quit()
		}
	case commands.KindNew:
		c.runner.Reset()
		c.state = session.InitialState()
		c.send(Event{Kind: EventState, State: c.state})
		c.send(Event{Kind: EventNotice, Notice: "Session reset."})
	case commands.KindUndo:
		c.state = session.Reduce(c.state, session.UndoLastTurn(c.runner.ContextWindow()))
		c.send(Event{Kind: EventState, State: c.state})
		c.send(Event{Kind: EventNotice, Notice: "Removed the last turn."})
	case commands.KindModel:
		if strings.TrimSpace(cmd.Value) == "" {
			c.send(Event{Kind: EventNotice, Notice: "Model: " + c.runner.Model() + ". Known: " + strings.Join(config.KnownModels(), ", ")})
			return
		}
		c.runner.SetModel(cmd.Value)
		c.send(Event{Kind: EventNotice, Notice: "Model set to " + c.runner.Model() + "."})
	case commands.KindFiles:
		c.send(Event{Kind: EventNotice, Notice: ListWorkspace(c.runner.Config.WorkspaceRoot)})
	}
}

// ListWorkspace renders a short top-level listing of the workspace root.
func ListWorkspace(root string) string {
	if root == "" {
		root = "."
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return "Workspace " + root + ": " + err.Error()
	}
	if len(entries) == 0 {
		return "Workspace " + root + " is empty."
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		names = append(names, name)
		if len(names) == 20 {
			names = append(names, "…")
			break
		}
	}
	return "Workspace " + root + ": " + strings.Join(names, " ")
}

// send enqueues an event without blocking the caller.
func (c *Controller) send(event Event) {
	if c == nil {
		return
	}
	select {
	case c.events <- event:
	default:
	}
}
