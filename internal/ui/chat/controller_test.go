package chat

import (
	"context"
	"testing"
	"time"

	"agentui/internal/agent"
	"agentui/internal/config"
	"agentui/internal/session"
	"agentui/internal/stream"
	"agentui/internal/testutil"
)

func newTestController(events []stream.Event) *Controller {
	runner := &agent.Runner{Provider: agent.ScriptProvider{Events: events}, Config: config.Default()}
	return &Controller{
		events: make(chan Event, 256),
		done:   make(chan struct{}),
		runner: runner,
		state:  session.InitialState(),
	}
}

func drainEvents(c *Controller) []Event {
	var out []Event
	for {
		select {
		case event := <-c.events:
			out = append(out, event)
		default:
			return out
		}
	}
}

func TestControllerSubmitRunsTurn(t *testing.T) {
	c := newTestController([]stream.Event{
		{Kind: stream.KindModelEnd, Content: "Answer: hello"},
	})
	if !c.Submit("say hello") {
		t.Fatalf("submission rejected")
	}
	testutil.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return !c.turning.Load()
	}, "turn did not finish")

	events := drainEvents(c)
	if len(events) == 0 {
		t.Fatalf("no events published")
	}
	last := events[len(events)-1]
	if last.Kind != EventTurnDone || last.Err != nil {
		t.Fatalf("unexpected final event %+v", last)
	}
	if len(last.State.Messages) != 2 || last.State.Messages[1].Content != "hello" {
		t.Fatalf("turn not committed: %+v", last.State.Messages)
	}
	if len(c.state.Messages) != 2 {
		t.Fatalf("controller state not updated")
	}
}

// gateProvider blocks the turn until released.
type gateProvider struct {
	release chan struct{}
}

func (p gateProvider) Stream(_ context.Context, _ agent.Input) (stream.Source, error) {
	<-p.release
	return stream.NewReplaySource(nil), nil
}

func TestControllerRejectsConcurrentTurns(t *testing.T) {
	provider := gateProvider{release: make(chan struct{})}
	c := newTestController(nil)
	c.runner = &agent.Runner{Provider: provider, Config: config.Default()}

	if !c.Submit("first") {
		t.Fatalf("first submission rejected")
	}
	if c.Submit("second") {
		t.Fatalf("second submission accepted while a turn is running")
	}
	close(provider.release)
	testutil.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return !c.turning.Load()
	}, "turn did not finish")
	if !c.Submit("/model") {
		t.Fatalf("command rejected after turn finished")
	}
}

func TestControllerNewCommandResetsSession(t *testing.T) {
	c := newTestController([]stream.Event{
		{Kind: stream.KindModelEnd, Content: "Answer: hi"},
	})
	c.state.Messages = []session.Message{{ID: "u", Speaker: session.SpeakerUser, Content: "old"}}

	if !c.Submit("/new") {
		t.Fatalf("command rejected")
	}
	events := drainEvents(c)
	if len(events) != 2 || events[0].Kind != EventState || events[1].Kind != EventNotice {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(events[0].State.Messages) != 0 {
		t.Fatalf("session not reset: %+v", events[0].State.Messages)
	}
	if len(c.state.Messages) != 0 {
		t.Fatalf("controller state not reset")
	}
}

func TestControllerModelCommand(t *testing.T) {
	c := newTestController(nil)
	if !c.Submit("/model o1") {
		t.Fatalf("command rejected")
	}
	events := drainEvents(c)
	if len(events) != 1 || events[0].Kind != EventNotice || events[0].Notice != "Model set to o1." {
		t.Fatalf("unexpected events %+v", events)
	}
	if c.runner.Model() != "o1" {
		t.Fatalf("override not applied: %q", c.runner.Model())
	}
}
