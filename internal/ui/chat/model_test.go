package chat

import (
	"errors"
	"strings"
	"testing"

	"agentui/internal/session"
	"agentui/internal/stream"
)

func planEvent(text string) Event {
	return Event{Kind: EventStructured, Structured: stream.StructuredEvent{
		Kind: stream.StructuredPlan, Text: text, Source: stream.PlanFromLLM,
	}}
}

func actionEvent(action session.MessageAction) Event {
	return Event{Kind: EventStructured, Structured: stream.StructuredEvent{
		Kind: stream.StructuredAction, Action: action,
	}}
}

func TestApplyEventPlanReplacesReasoning(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m = applyEvent(m, planEvent("Plan: read the file"))
	m = applyEvent(m, planEvent("Plan: read the file\n1. open it"))
	if m.liveReasoning != "Plan: read the file\n1. open it" {
		t.Fatalf("unexpected reasoning %q", m.liveReasoning)
	}
}

func TestApplyEventHiddenVisibilityClearsReasoning(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m = applyEvent(m, planEvent("Plan: secret"))
	m = applyEvent(m, Event{Kind: EventStructured, Structured: stream.StructuredEvent{
		Kind: stream.StructuredVisibility, Visible: false,
	}})
	if m.liveReasoning != "" {
		t.Fatalf("reasoning not cleared: %q", m.liveReasoning)
	}
}

func TestApplyEventActionUpsertByID(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m = applyEvent(m, actionEvent(session.MessageAction{ID: "1", Name: "list_path", Status: session.ActionRunning}))
	m = applyEvent(m, actionEvent(session.MessageAction{ID: "2", Name: "read_file", Status: session.ActionRunning}))
	m = applyEvent(m, actionEvent(session.MessageAction{ID: "1", Name: "list_path", Status: session.ActionSuccess, Detail: "Listed /tmp (2 entries)"}))
	if len(m.liveActions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(m.liveActions))
	}
	if m.liveActions[0].ID != "1" || m.liveActions[0].Status != session.ActionSuccess {
		t.Fatalf("first action not updated in place: %+v", m.liveActions[0])
	}
	if m.liveActions[1].ID != "2" {
		t.Fatalf("order not preserved: %+v", m.liveActions)
	}
}

func TestApplyEventTurnDoneSwapsState(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m.thinking = true
	m.pendingPrompt = "list /tmp"
	m = applyEvent(m, planEvent("Plan: step"))
	m = applyEvent(m, actionEvent(session.MessageAction{ID: "1", Name: "list_path", Status: session.ActionSuccess}))

	committed := session.InitialState()
	committed.Messages = []session.Message{
		{ID: "u", Speaker: session.SpeakerUser, Content: "list /tmp"},
		{ID: "a", Speaker: session.SpeakerAgent, Content: "Found 1 entry", Status: session.MessageComplete},
	}
	m = applyEvent(m, Event{Kind: EventTurnDone, State: committed})
	if m.thinking || m.pendingPrompt != "" || m.liveReasoning != "" || m.liveActions != nil {
		t.Fatalf("live turn not cleared: %+v", m)
	}
	if len(m.state.Messages) != 2 || m.state.Messages[1].Content != "Found 1 entry" {
		t.Fatalf("state not committed: %+v", m.state.Messages)
	}
	if m.errText != "" {
		t.Fatalf("unexpected error text %q", m.errText)
	}
}

func TestApplyEventTurnDoneKeepsError(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m.thinking = true
	m = applyEvent(m, Event{Kind: EventTurnDone, State: session.InitialState(), Err: errors.New("runtime unavailable")})
	if m.errText != "runtime unavailable" {
		t.Fatalf("error not surfaced: %q", m.errText)
	}
	if m.thinking {
		t.Fatalf("thinking not cleared on failure")
	}
}

func TestApplyEventNotice(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m = applyEvent(m, Event{Kind: EventNotice, Notice: "Model set to o1."})
	if m.notice != "Model set to o1." {
		t.Fatalf("unexpected notice %q", m.notice)
	}
}

func TestRenderTranscript(t *testing.T) {
	visible := true
	state := session.InitialState()
	state.Messages = []session.Message{
		{ID: "u", Speaker: session.SpeakerUser, Content: "list /tmp", Status: session.MessageComplete},
		{
			ID: "a", Speaker: session.SpeakerAgent, Content: "Found 1 entry",
			Status: session.MessageComplete, Reasoning: "Plan: check the directory",
			ShowReasoning: &visible,
			Actions: []session.MessageAction{
				{ID: "1", Name: "list_path", Status: session.ActionSuccess, Detail: "Listed /tmp (1 entry)"},
			},
		},
		{ID: "h", Speaker: session.SpeakerUser, Content: "invisible", Hidden: true},
	}
	out := renderTranscript(state, true)
	for _, want := range []string{"> list /tmp", "Plan: check the directory", "✓ Listed /tmp (1 entry)", "Found 1 entry"} {
		if !strings.Contains(out, want) {
			t.Fatalf("transcript missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "invisible") {
		t.Fatalf("hidden message rendered:\n%s", out)
	}
}

func TestRenderTranscriptHidesSuppressedReasoning(t *testing.T) {
	hidden := false
	state := session.InitialState()
	state.Messages = []session.Message{
		{
			ID: "a", Speaker: session.SpeakerAgent, Content: "Done",
			Status: session.MessageComplete, Reasoning: "Plan: secret",
			ShowReasoning: &hidden,
		},
	}
	out := renderTranscript(state, true)
	if strings.Contains(out, "secret") {
		t.Fatalf("suppressed reasoning rendered:\n%s", out)
	}
}

func TestRenderFooter(t *testing.T) {
	m := NewModel(nil, nil, Options{NoColor: true})
	m.liveModel = "m-1"
	percent := 87
	m.state.ContextPercent = &percent
	out := renderFooter(m)
	if out != "m-1 | context left 87%" {
		t.Fatalf("unexpected footer %q", out)
	}
}
