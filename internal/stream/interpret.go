package stream

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"agentui/internal/session"
	"agentui/internal/summary"
	"agentui/internal/textutil"
)

// Interpreter configures one streaming interpretation pass. The zero value
// is ready to use.
type Interpreter struct {
	// Trace, when set, receives one line per completed tool event.
	Trace io.Writer
}

// Interpret consumes a raw event source with default options.
func Interpret(source Source, onEvent func(StructuredEvent)) (State, error) {
	return Interpreter{}.Interpret(source, onEvent)
}

// Interpret drives the single-pass state machine over the raw stream,
// dispatching structured events as they are derived and returning the final
// aggregated state. Errors from the source abort interpretation and are
// returned unwrapped; no retries happen here. Every buffer is owned by this
// call, so concurrent sessions never share state.
func (it Interpreter) Interpret(source Source, onEvent func(StructuredEvent)) (State, error) {
	r := &run{
		trace:      it.Trace,
		onEvent:    onEvent,
		actions:    make(map[string]session.MessageAction),
		planRunIDs: make(map[string]bool),
	}
	for {
		event, err := source.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			return State{}, err
		}
		r.consume(event)
	}
	return r.finish(), nil
}

// run holds the per-invocation accumulator state.
type run struct {
	trace   io.Writer
	onEvent func(StructuredEvent)

	state      State
	actions    map[string]session.MessageAction
	order      []string
	planRunIDs map[string]bool

	visibilityBuffer strings.Builder
	pendingReasoning strings.Builder
	modelText        strings.Builder
	seenAnswerChunks []string
	lastPlanText     string
}

// consume applies one raw lifecycle event.
func (r *run) consume(event Event) {
	switch event.Kind {
	case KindModelStream:
		text := chunkText(event.Content)
		if text == "" {
			return
		}
		r.recordModelText(text)
		text = r.consumeVisibilitySignal(text)
		if r.visible() && text != "" {
			r.emitPlan(r.state.Reasoning+text, PlanFromLLM)
		}
	case KindModelEnd:
		r.modelEnd(event)
	case KindToolStart:
		r.toolStart(event)
	case KindToolEnd:
		r.toolEnd(event)
	case KindToolError:
		r.completeTool(event, session.ActionError, summary.StatusError, unwrapToolOutput(event.Output))
	}
}

// modelEnd handles the terminal chunk of one model call: remaining text,
// forced visibility resolution, usage and model metadata.
func (r *run) modelEnd(event Event) {
	text := chunkText(event.Content)
	if text != "" {
		r.recordModelText(text)
		text = r.consumeVisibilitySignal(text)
		if r.visible() {
			if text != "" {
				r.emitPlan(r.state.Reasoning+text, PlanFromLLM)
				r.seenAnswerChunks = append(r.seenAnswerChunks, text)
			}
		} else {
			r.pendingReasoning.WriteString(text)
		}
	}
	if r.state.ShowReasoning == nil {
		// Default policy: reasoning stays hidden unless explicitly enabled.
		r.resolveVisibility(false)
		r.pendingReasoning.Reset()
	}
	if r.visible() && r.pendingReasoning.Len() > 0 {
		r.state.Reasoning = truncateAtSection(strings.TrimSpace(r.state.Reasoning + r.pendingReasoning.String()))
		r.pendingReasoning.Reset()
	}
	if usage := usageFromMetadata(event.Usage); usage != nil {
		r.state.Usage = usage
		r.emit(StructuredEvent{Kind: StructuredUsage, Usage: *usage})
	}
	if event.Metadata != nil {
		if model, ok := event.Metadata["ls_model_name"].(string); ok && model != "" {
			r.state.Model = model
			r.emit(StructuredEvent{Kind: StructuredModel, Model: model})
		}
	}
}

// toolStart opens a running action, or tracks a pending plan run for the
// to-do tool.
func (r *run) toolStart(event Event) {
	id := event.RunID
	if id == "" {
		id = "tool-" + uuid.NewString()
	}
	name := event.Name
	if name == "" {
		name = "tool"
	}
	if name == "write_todos" {
		r.planRunIDs[id] = true
		return
	}
	action := session.MessageAction{
		ID:     id,
		Name:   name,
		Status: session.ActionRunning,
		Detail: summary.DescribeToolAction(name, event.Input, nil, summary.StatusRunning),
		Input:  event.Input,
	}
	r.upsertAction(action)
	r.emit(StructuredEvent{Kind: StructuredAction, Action: action})
}

// toolEnd completes an action, or converts a pending to-do run into a
// todos-sourced plan update.
func (r *run) toolEnd(event Event) {
	if r.planRunIDs[event.RunID] {
		delete(r.planRunIDs, event.RunID)
		raw := textutil.FormatToolDetail(event.Output, textutil.DefaultDetailLimit)
		if formatted := extractTodoContent(raw); formatted != "" {
			r.state.Reasoning = formatted
			// Todos plans bypass the llm gate; only an explicit "no" hides them.
			if r.state.ShowReasoning == nil || *r.state.ShowReasoning {
				r.emit(StructuredEvent{
					Kind:   StructuredPlan,
					Text:   strings.TrimSpace(formatted),
					Source: PlanFromTodos,
				})
			}
		}
		return
	}
	r.completeTool(event, session.ActionSuccess, summary.StatusSuccess, unwrapToolOutput(event.Output))
}

// completeTool finalizes an action by run id, synthesizing a record when the
// start event was never seen.
func (r *run) completeTool(event Event, status session.ActionStatus, summaryStatus summary.Status, output any) {
	existing, found := r.actions[event.RunID]
	input := event.Input
	name := event.Name
	id := event.RunID
	if found {
		if existing.Input != nil {
			input = existing.Input
		}
		if existing.Name != "" {
			name = existing.Name
		}
		if id == "" {
			id = existing.ID
		}
	}
	if name == "" {
		name = "tool"
	}
	if id == "" {
		id = "tool-" + uuid.NewString()
	}
	detail := summary.DescribeToolAction(name, input, output, summaryStatus)
	if detail == "" && found {
		detail = existing.Detail
	}
	action := session.MessageAction{
		ID:     id,
		Name:   name,
		Status: status,
		Detail: detail,
		Input:  input,
	}
	r.upsertAction(action)
	r.tracef("%s name=%s run=%s detail=%q", summaryStatus, name, id, detail)
	r.emit(StructuredEvent{Kind: StructuredAction, Action: action})
}

// finish resolves the answer and reasoning sections once the stream ends.
func (r *run) finish() State {
	combined := r.modelText.String()
	reasoning, answerSection, visible := SplitReasoningAndAnswer(combined)
	if visible != nil && r.state.ShowReasoning == nil {
		r.resolveVisibility(*visible)
	}
	if r.state.ShowReasoning == nil {
		r.resolveVisibility(false)
	}
	if strings.TrimSpace(reasoning) != "" {
		r.state.Reasoning = truncateAtSection(strings.TrimSpace(reasoning))
	}

	chosen := strings.TrimSpace(answerSection)
	if chosen == "" {
		chosen = strings.TrimSpace(strings.Join(r.seenAnswerChunks, ""))
	}
	if chosen == "" {
		chosen = r.state.Answer
	}
	cleaned, _ := StripVisibilityLine(chosen)
	r.state.Answer = strings.TrimSpace(cleaned)
	if strings.HasPrefix(r.state.Answer, "Plan:") && len(r.seenAnswerChunks) > 0 {
		r.state.Answer = strings.TrimSpace(strings.Join(r.seenAnswerChunks, ""))
	}
	if strings.TrimSpace(r.state.Answer) == "" {
		r.state.Answer = ActionDigest(r.state.Actions)
	}

	pruned, prunedSomething := pruneAnswerFromReasoning(r.state.Reasoning, r.state.Answer, textutil.NormalizeSpace)
	r.state.Reasoning = pruned
	normReasoning := textutil.NormalizeSpace(r.state.Reasoning)
	normAnswer := textutil.NormalizeSpace(r.state.Answer)
	backupAnswer := textutil.NormalizeSpace(strings.Join(r.seenAnswerChunks, " "))
	if normAnswer != "" && normReasoning != "" && strings.Contains(normReasoning, normAnswer) {
		r.state.Reasoning = ""
	} else if normAnswer == "" && backupAnswer != "" && normReasoning != "" && strings.Contains(normReasoning, backupAnswer) {
		r.state.Reasoning = ""
	}
	if r.state.Answer != "" && r.state.Reasoning != "" && prunedSomething {
		stub := strings.ToLower(strings.TrimSpace(r.state.Reasoning))
		if strings.HasPrefix(stub, "plan:") && len(r.state.Reasoning) < 120 && !strings.Contains(r.state.Reasoning, "\n") {
			r.state.Reasoning = ""
		}
	}
	r.state.Reasoning = truncateAtSection(strings.TrimSpace(r.state.Reasoning))

	r.emit(StructuredEvent{Kind: StructuredAnswer, Text: r.state.Answer})
	return r.state
}

// consumeVisibilitySignal buffers text until the visibility marker is found.
// It returns the remaining chunk text once visibility is resolved, and the
// empty string while still buffering or when the chunk was consumed by the
// marker transition.
func (r *run) consumeVisibilitySignal(chunk string) string {
	if r.state.ShowReasoning != nil {
		return chunk
	}
	r.visibilityBuffer.WriteString(chunk)
	buffered := r.visibilityBuffer.String()
	loc := visibilityPattern.FindStringSubmatchIndex(buffered)
	if loc == nil {
		return ""
	}
	visible := strings.EqualFold(buffered[loc[2]:loc[3]], "yes")
	r.resolveVisibility(visible)
	// Text before the marker is pre-signal boilerplate and is dropped; the
	// remainder seeds the reasoning buffer when visible.
	seed := strings.TrimLeft(buffered[loc[1]:], " \t\r\n")
	r.visibilityBuffer.Reset()
	if visible && seed != "" {
		r.emitPlan(seed, PlanFromLLM)
	}
	return ""
}

// resolveVisibility fixes the visibility decision for the session.
func (r *run) resolveVisibility(visible bool) {
	value := visible
	r.state.ShowReasoning = &value
	r.emit(StructuredEvent{Kind: StructuredVisibility, Visible: visible})
}

// visible reports whether reasoning is resolved visible.
func (r *run) visible() bool {
	return r.state.ShowReasoning != nil && *r.state.ShowReasoning
}

// recordModelText appends a chunk to the answer-recovery side buffer.
func (r *run) recordModelText(value string) {
	cleaned, _ := StripVisibilityLine(value)
	if strings.TrimSpace(cleaned) != "" {
		r.modelText.WriteString(cleaned)
	}
}

// emitPlan publishes a cumulative reasoning snapshot, deduplicated against
// the previous one under whitespace normalization.
func (r *run) emitPlan(text string, source PlanSource) {
	cleaned := truncateAtSection(strings.TrimSpace(text))
	if textutil.NormalizeSpace(cleaned) == textutil.NormalizeSpace(r.lastPlanText) {
		return
	}
	r.lastPlanText = cleaned
	r.state.Reasoning = cleaned
	r.emit(StructuredEvent{Kind: StructuredPlan, Text: cleaned, Source: source})
}

// upsertAction stores an action, preserving first-seen ordering.
func (r *run) upsertAction(action session.MessageAction) {
	if _, ok := r.actions[action.ID]; !ok {
		r.order = append(r.order, action.ID)
	}
	r.actions[action.ID] = action
	snapshot := make([]session.MessageAction, 0, len(r.order))
	for _, id := range r.order {
		snapshot = append(snapshot, r.actions[id])
	}
	r.state.Actions = snapshot
}

// emit forwards a structured event to the caller.
func (r *run) emit(event StructuredEvent) {
	if r.onEvent != nil {
		r.onEvent(event)
	}
}

// tracef writes a diagnostic line when tracing is enabled.
func (r *run) tracef(format string, args ...any) {
	if r.trace == nil {
		return
	}
	fmt.Fprintf(r.trace, "[action-trace] "+format+"\n", args...)
}

// chunkText normalizes a model chunk payload into plain text, unwrapping
// {content:…} and {kwargs:{content:…}} envelopes.
func chunkText(content any) string {
	if object, ok := content.(map[string]any); ok {
		if inner, ok := object["content"]; ok {
			return textutil.NormalizeContent(inner)
		}
		if kwargs, ok := object["kwargs"].(map[string]any); ok {
			if inner, ok := kwargs["content"]; ok {
				return textutil.NormalizeContent(inner)
			}
		}
		return ""
	}
	return textutil.NormalizeContent(content)
}

// unwrapToolOutput reduces {content:"…"} tool envelopes to their text.
func unwrapToolOutput(output any) any {
	if object, ok := output.(map[string]any); ok {
		if content, ok := object["content"].(string); ok {
			return content
		}
	}
	return output
}

// usageFromMetadata normalizes token counts from runtime metadata, accepting
// both snake_case and camelCase spellings. All-zero usage is treated as "not
// reported" and returns nil.
func usageFromMetadata(meta map[string]any) *session.TokenUsage {
	if meta == nil {
		return nil
	}
	input := intFromKeys(meta, "prompt_tokens", "promptTokens", "input_tokens", "inputTokens")
	output := intFromKeys(meta, "completion_tokens", "completionTokens", "output_tokens", "outputTokens")
	total, ok := lookupInt(meta, "total_tokens", "totalTokens")
	if !ok {
		total = input + output
	}
	usage := session.TokenUsage{InputTokens: input, OutputTokens: output, TotalTokens: total}
	if usage.IsZero() {
		return nil
	}
	return &usage
}

// intFromKeys returns the first present numeric value among the keys.
func intFromKeys(meta map[string]any, keys ...string) int {
	value, _ := lookupInt(meta, keys...)
	return value
}

// lookupInt finds a numeric metadata value, tolerating JSON float decoding.
func lookupInt(meta map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		raw, ok := meta[key]
		if !ok {
			continue
		}
		switch typed := raw.(type) {
		case int:
			return typed, true
		case int64:
			return int(typed), true
		case float64:
			return int(typed), true
		}
	}
	return 0, false
}
