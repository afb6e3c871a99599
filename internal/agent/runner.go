// Package agent glues one user turn together: route and assemble the input,
// stream the runtime, interpret the events, and commit the outcome to the
// session state and the transcript history.
package agent

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"agentui/internal/config"
	"agentui/internal/history"
	"agentui/internal/prompt"
	"agentui/internal/router"
	"agentui/internal/session"
	"agentui/internal/stream"
)

// alertGlyph prefixes error answers in the transcript.
const alertGlyph = "⚠"

// Runner executes turns against a provider. It owns the cross-turn routing
// state (sticky intent, one-time notebook tips) and the model override from
// the /model command. Not safe for concurrent turns; the UI serializes them.
type Runner struct {
	Provider Provider
	Config   config.Config
	// History receives completed turns; nil disables archival.
	History *history.Store
	// Trace receives interpreter and archival diagnostics when enabled.
	Trace io.Writer

	sessionID         string
	lastIntent        router.Intent
	notebookTipsShown bool
	modelOverride     string
}

// SetModel overrides the configured model for subsequent turns. An empty
// value restores the configured one.
func (r *Runner) SetModel(model string) {
	r.modelOverride = strings.TrimSpace(model)
}

// Model returns the model requested from the provider.
func (r *Runner) Model() string {
	if r.modelOverride != "" {
		return r.modelOverride
	}
	return r.Config.Model
}

// ContextWindow returns the token window for the active model.
func (r *Runner) ContextWindow() int {
	if r.Config.ContextWindow > 0 {
		return r.Config.ContextWindow
	}
	return config.ModelContextWindow(r.Model())
}

// LastIntent returns the previous turn's routed intent.
func (r *Runner) LastIntent() router.Intent {
	return r.lastIntent
}

// Reset clears the cross-turn routing state, matching a session reset.
func (r *Runner) Reset() {
	r.lastIntent = ""
	r.notebookTipsShown = false
	r.sessionID = ""
}

// RunTurn executes one prompt end to end and returns the committed session
// state plus the interpreted stream outcome. Structured events are forwarded
// to onEvent as they happen; onEvent may be nil. On failure the returned
// state carries the error turn and the error is also returned.
func (r *Runner) RunTurn(ctx context.Context, state session.State, promptText string, onEvent func(stream.StructuredEvent)) (session.State, stream.State, error) {
	if r.sessionID == "" {
		r.sessionID = uuid.NewString()
	}
	agentID := uuid.NewString()
	now := time.Now()
	state = session.Reduce(state, session.AddMessage(session.Message{
		ID:        uuid.NewString(),
		Speaker:   session.SpeakerUser,
		Content:   promptText,
		Status:    session.MessageComplete,
		Timestamp: now,
	}))
	state = session.Reduce(state, session.AddMessage(session.Message{
		ID:        agentID,
		Speaker:   session.SpeakerAgent,
		Status:    session.MessagePending,
		Timestamp: now,
	}))
	state = session.Reduce(state, session.SetStatus(session.StatusThinking, ""))

	prepared := prompt.PrepareInput(promptText, prompt.Options{
		WorkspaceRoot:     r.Config.WorkspaceRoot,
		LastIntent:        r.lastIntent,
		NotebookTipsShown: r.notebookTipsShown,
	})
	r.lastIntent = prepared.Decision.Intent
	if prepared.IncludedNotebookTips {
		r.notebookTipsShown = true
	}

	source, err := r.Provider.Stream(ctx, Input{
		SystemPrompt:   r.Config.SystemPrompt,
		Content:        prepared.Content,
		Model:          r.Model(),
		RecursionLimit: r.Config.RecursionLimit,
	})
	if err != nil {
		return r.failTurn(state, agentID, err), stream.State{}, err
	}

	result, err := stream.Interpreter{Trace: r.Trace}.Interpret(source, onEvent)
	if err != nil {
		return r.failTurn(state, agentID, err), stream.State{}, err
	}

	content := result.Answer
	status := session.MessageComplete
	reasoning := ""
	if result.ShowReasoning != nil && *result.ShowReasoning {
		reasoning = result.Reasoning
	}
	state = session.Reduce(state, session.UpdateMessage(agentID, session.MessagePatch{
		Content:       &content,
		Status:        &status,
		Reasoning:     &reasoning,
		Actions:       result.Actions,
		ShowReasoning: result.ShowReasoning,
	}))
	if result.Usage != nil {
		state = session.Reduce(state, session.UpdateUsage(*result.Usage, r.ContextWindow()))
	}
	state = session.Reduce(state, session.SetStatus(session.StatusIdle, ""))

	r.archive(ctx, promptText, prepared.Decision, result)
	return state, result, nil
}

// failTurn marks the pending agent message as the error answer.
func (r *Runner) failTurn(state session.State, agentID string, err error) session.State {
	content := alertGlyph + " " + err.Error()
	status := session.MessageError
	severity := session.SeverityError
	state = session.Reduce(state, session.UpdateMessage(agentID, session.MessagePatch{
		Content:  &content,
		Status:   &status,
		Severity: &severity,
	}))
	return session.Reduce(state, session.SetStatus(session.StatusError, err.Error()))
}

// archive writes the completed turn to history. Archival is best effort; a
// failure never fails the turn.
func (r *Runner) archive(ctx context.Context, promptText string, decision router.Decision, result stream.State) {
	if r.History == nil {
		return
	}
	var usage session.TokenUsage
	if result.Usage != nil {
		usage = *result.Usage
	}
	model := result.Model
	if model == "" {
		model = r.Model()
	}
	_, err := r.History.AppendTurn(ctx, history.Turn{
		SessionID: r.sessionID,
		Prompt:    promptText,
		Answer:    result.Answer,
		Reasoning: result.Reasoning,
		Intent:    string(decision.Intent),
		Model:     model,
		Usage:     usage,
	})
	if err != nil && r.Trace != nil {
		fmt.Fprintf(r.Trace, "[action-trace] history append failed: %v\n", err)
	}
}
