package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"agentui/internal/config"
	"agentui/internal/history"
	"agentui/internal/session"
	"agentui/internal/stream"
	"agentui/internal/testutil"
)

// recordingProvider captures the input of every turn.
type recordingProvider struct {
	inputs []Input
	events []stream.Event
	err    error
}

func (p *recordingProvider) Stream(_ context.Context, input Input) (stream.Source, error) {
	p.inputs = append(p.inputs, input)
	if p.err != nil {
		return nil, p.err
	}
	return stream.NewReplaySource(p.events), nil
}

func listingEvents() []stream.Event {
	return []stream.Event{
		{Kind: stream.KindModelStream, Content: "ReasoningVisible: yes\nPlan: Step 1"},
		{Kind: stream.KindToolStart, Name: "list_path", RunID: "1", Input: map[string]any{"path": "/tmp"}},
		{Kind: stream.KindToolEnd, RunID: "1", Output: "Listing for /tmp:\ndir /tmp/a"},
		{Kind: stream.KindModelEnd, Content: "Answer: Found 1 entry",
			Usage:    map[string]any{"input_tokens": 12, "output_tokens": 4},
			Metadata: map[string]any{"ls_model_name": "m-1"}},
	}
}

func TestRunTurnCommitsResult(t *testing.T) {
	provider := &recordingProvider{events: listingEvents()}
	runner := &Runner{Provider: provider, Config: config.Default()}
	ctx := testutil.Context(t, 0)

	state, result, err := runner.RunTurn(ctx, session.InitialState(), "list /tmp files", nil)
	if err != nil {
		t.Fatalf("run turn: %v", err)
	}
	if len(state.Messages) != 2 {
		t.Fatalf("expected user and agent messages, got %d", len(state.Messages))
	}
	agentMsg := state.Messages[1]
	if agentMsg.Speaker != session.SpeakerAgent || agentMsg.Status != session.MessageComplete {
		t.Fatalf("unexpected agent message %+v", agentMsg)
	}
	if agentMsg.Content != "Found 1 entry" {
		t.Fatalf("unexpected answer %q", agentMsg.Content)
	}
	if agentMsg.Reasoning != "Plan: Step 1" {
		t.Fatalf("unexpected reasoning %q", agentMsg.Reasoning)
	}
	if len(agentMsg.Actions) != 1 || agentMsg.Actions[0].Status != session.ActionSuccess {
		t.Fatalf("unexpected actions %+v", agentMsg.Actions)
	}
	if state.Status != session.StatusIdle {
		t.Fatalf("unexpected status %q", state.Status)
	}
	if state.TokenUsage == nil || state.TokenUsage.TotalTokens != 16 {
		t.Fatalf("usage not committed: %+v", state.TokenUsage)
	}
	if state.ContextPercent == nil {
		t.Fatalf("context percent missing")
	}
	if result.Model != "m-1" {
		t.Fatalf("unexpected model %q", result.Model)
	}
	if len(provider.inputs) != 1 {
		t.Fatalf("expected one provider call, got %d", len(provider.inputs))
	}
	input := provider.inputs[0]
	if !strings.Contains(input.Content, "[Intent]") || input.SystemPrompt == "" {
		t.Fatalf("input not prepared: %+v", input)
	}
	if input.Model != config.DefaultModel || input.RecursionLimit != config.DefaultRecursionLimit {
		t.Fatalf("config not forwarded: %+v", input)
	}
}

func TestRunTurnProviderFailure(t *testing.T) {
	wantErr := errors.New("runtime unavailable")
	runner := &Runner{Provider: &recordingProvider{err: wantErr}, Config: config.Default()}
	ctx := testutil.Context(t, 0)

	state, _, err := runner.RunTurn(ctx, session.InitialState(), "hello", nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if state.Status != session.StatusError || state.Error == "" {
		t.Fatalf("unexpected session status %q / %q", state.Status, state.Error)
	}
	agentMsg := state.Messages[1]
	if agentMsg.Status != session.MessageError || !strings.HasPrefix(agentMsg.Content, alertGlyph) {
		t.Fatalf("error turn not surfaced: %+v", agentMsg)
	}
	if !strings.Contains(agentMsg.Content, "runtime unavailable") {
		t.Fatalf("error text missing: %q", agentMsg.Content)
	}
}

func TestRunTurnArchivesHistory(t *testing.T) {
	ctx := testutil.Context(t, 0)
	store, err := history.Open(ctx, "")
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	provider := &recordingProvider{events: listingEvents()}
	runner := &Runner{Provider: provider, Config: config.Default(), History: store}
	if _, _, err := runner.RunTurn(ctx, session.InitialState(), "list files", nil); err != nil {
		t.Fatalf("run turn: %v", err)
	}

	turns, err := store.RecentTurns(ctx, 10)
	if err != nil {
		t.Fatalf("recent turns: %v", err)
	}
	if len(turns) != 1 {
		t.Fatalf("expected one archived turn, got %d", len(turns))
	}
	turn := turns[0]
	if turn.Prompt != "list files" || turn.Answer != "Found 1 entry" || turn.Intent != "filesystem" {
		t.Fatalf("unexpected turn %+v", turn)
	}
	if turn.Model != "m-1" || turn.Usage.TotalTokens != 16 {
		t.Fatalf("metadata not archived: %+v", turn)
	}
}

func TestRunTurnNotebookTipsShownOnce(t *testing.T) {
	provider := &recordingProvider{events: listingEvents()}
	runner := &Runner{Provider: provider, Config: config.Default()}
	ctx := testutil.Context(t, 0)

	state := session.InitialState()
	state, _, err := runner.RunTurn(ctx, state, "create a notebook", nil)
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if _, _, err := runner.RunTurn(ctx, state, "run the notebook again", nil); err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if !strings.Contains(provider.inputs[0].Content, "[Notebook guardrails]") {
		t.Fatalf("guardrails missing from first turn:\n%s", provider.inputs[0].Content)
	}
	if strings.Contains(provider.inputs[1].Content, "[Notebook guardrails]") {
		t.Fatalf("guardrails repeated:\n%s", provider.inputs[1].Content)
	}
}

func TestRunTurnStickyAffirmative(t *testing.T) {
	provider := &recordingProvider{events: listingEvents()}
	runner := &Runner{Provider: provider, Config: config.Default()}
	ctx := testutil.Context(t, 0)

	state := session.InitialState()
	state, _, err := runner.RunTurn(ctx, state, "list the files in @src", nil)
	if err != nil {
		t.Fatalf("first turn: %v", err)
	}
	if _, _, err := runner.RunTurn(ctx, state, "yes please", nil); err != nil {
		t.Fatalf("second turn: %v", err)
	}
	if !strings.Contains(provider.inputs[1].Content, "category: filesystem") {
		t.Fatalf("affirmative did not stick:\n%s", provider.inputs[1].Content)
	}
	if !strings.Contains(provider.inputs[1].Content, "confidence: 100%") {
		t.Fatalf("sticky confidence wrong:\n%s", provider.inputs[1].Content)
	}
}

func TestModelOverride(t *testing.T) {
	runner := &Runner{Config: config.Default()}
	if runner.Model() != config.DefaultModel {
		t.Fatalf("unexpected default model %q", runner.Model())
	}
	runner.SetModel("o1")
	if runner.Model() != "o1" {
		t.Fatalf("override ignored: %q", runner.Model())
	}
	if runner.ContextWindow() != 200_000 {
		t.Fatalf("window not derived from override: %d", runner.ContextWindow())
	}
	runner.SetModel("")
	if runner.Model() != config.DefaultModel {
		t.Fatalf("override not cleared: %q", runner.Model())
	}
}
