package stream

import (
	"fmt"
	"strings"

	"agentui/internal/session"
)

// PlanSource tags where a plan update originated.
type PlanSource string

const (
	// PlanFromLLM marks reasoning streamed by the model itself.
	PlanFromLLM PlanSource = "llm"
	// PlanFromTodos marks plan text recovered from the to-do tool.
	PlanFromTodos PlanSource = "todos"
)

// StructuredKind identifies a normalized interpreter output event.
type StructuredKind int

const (
	// StructuredPlan carries a cumulative reasoning snapshot, not a delta.
	StructuredPlan StructuredKind = iota
	// StructuredAction carries one tool action upsert.
	StructuredAction
	// StructuredUsage carries normalized token counts.
	StructuredUsage
	// StructuredModel carries the resolved model identifier.
	StructuredModel
	// StructuredVisibility announces the reasoning visibility decision,
	// at most once per session.
	StructuredVisibility
	// StructuredAnswer carries the final answer, exactly once at stream end.
	StructuredAnswer
)

// StructuredEvent is the interpreter's output union.
type StructuredEvent struct {
	Kind    StructuredKind
	Text    string
	Source  PlanSource
	Action  session.MessageAction
	Usage   session.TokenUsage
	Model   string
	Visible bool
}

// State is the aggregated outcome of one interpreted streaming session.
type State struct {
	Reasoning     string
	Answer        string
	Actions       []session.MessageAction
	Usage         *session.TokenUsage
	Model         string
	ShowReasoning *bool
}

// ActionDigest summarizes completed actions as a fallback answer. Returns
// the empty string when no action succeeded.
func ActionDigest(actions []session.MessageAction) string {
	labels := make([]string, 0, len(actions))
	for _, action := range actions {
		if action.Status != session.ActionSuccess {
			continue
		}
		label := strings.TrimSpace(action.Detail)
		if label == "" {
			label = strings.ReplaceAll(action.Name, "_", " ")
		}
		labels = append(labels, label)
	}
	if len(labels) == 0 {
		return ""
	}
	if len(labels) > 5 {
		labels = labels[len(labels)-5:]
	}
	return fmt.Sprintf("Completed actions:\n%s", strings.Join(labels, "\n"))
}
