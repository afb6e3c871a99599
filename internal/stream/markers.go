package stream

import (
	"encoding/json"
	"regexp"
	"strings"
)

var (
	visibilityPattern        = regexp.MustCompile(`(?i)ReasoningVisible:\s*(yes|no)`)
	leadingVisibilityPattern = regexp.MustCompile(`(?i)^\s*ReasoningVisible:\s*(yes|no)\s*`)
	sectionPattern           = regexp.MustCompile(`(?i)(Actions:|Answer:)`)
	answerPattern            = regexp.MustCompile(`(?i)Answer:\s*`)
	actionsPattern           = regexp.MustCompile(`(?i)Actions:\s*`)
	todoUpdatePattern        = regexp.MustCompile(`(?i)"update"\s*:\s*\{[^}]*"content"\s*:\s*"([^"]+)"[^}]*\}`)
)

// StripVisibilityLine removes a leading visibility marker and reports the
// flag it carried, if any.
func StripVisibilityLine(text string) (string, *bool) {
	if text == "" {
		return "", nil
	}
	match := leadingVisibilityPattern.FindStringSubmatch(text)
	if match == nil {
		return text, nil
	}
	visible := strings.EqualFold(match[1], "yes")
	remainder := strings.TrimLeft(text[len(match[0]):], " \t\r\n")
	return remainder, &visible
}

// SplitReasoningAndAnswer separates structured model output into its
// reasoning and answer sections. Without an answer marker the whole cleaned
// text is the answer. This is the single containment point for structural
// free-text parsing; model output is adversarial here.
func SplitReasoningAndAnswer(raw string) (string, string, *bool) {
	if raw == "" {
		return "", "", nil
	}
	text, visible := StripVisibilityLine(raw)
	loc := answerPattern.FindStringIndex(text)
	if loc == nil {
		return "", strings.TrimSpace(text), visible
	}
	answer := strings.TrimSpace(text[loc[1]:])
	beforeAnswer := strings.TrimSpace(text[:loc[0]])
	if actionsLoc := actionsPattern.FindStringIndex(beforeAnswer); actionsLoc != nil {
		beforeAnswer = strings.TrimSpace(beforeAnswer[:actionsLoc[0]])
	}
	return beforeAnswer, answer, visible
}

// truncateAtSection cuts reasoning text at the first structural marker so
// plan updates never leak section boilerplate.
func truncateAtSection(value string) string {
	loc := sectionPattern.FindStringIndex(value)
	if loc == nil {
		return value
	}
	return strings.TrimSpace(value[:loc[0]])
}

// extractTodoContent recovers the plan text embedded in a write_todos tool
// output: JSON first, regex fallback, raw text as a last resort.
func extractTodoContent(raw string) string {
	if raw == "" {
		return ""
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw), &parsed); err == nil {
		if update, ok := parsed["update"].(map[string]any); ok {
			if content, ok := update["content"].(string); ok {
				return content
			}
		}
	}
	if match := todoUpdatePattern.FindStringSubmatch(raw); match != nil {
		return match[1]
	}
	return raw
}

// pruneAnswerFromReasoning removes the chosen answer text from reasoning,
// first as a whole and then line by line under whitespace normalization.
// The second result reports whether anything was removed.
func pruneAnswerFromReasoning(reasoning, answer string, normalize func(string) string) (string, bool) {
	if reasoning == "" || answer == "" {
		return reasoning, false
	}
	normalizedAnswer := normalize(answer)
	if normalizedAnswer == "" {
		return reasoning, false
	}
	pruned := reasoning
	if strings.Contains(normalize(reasoning), normalizedAnswer) {
		pruned = strings.TrimSpace(strings.ReplaceAll(pruned, answer, ""))
	}
	answerLines := make(map[string]bool)
	for _, line := range strings.Split(answer, "\n") {
		if normalized := normalize(line); normalized != "" {
			answerLines[normalized] = true
		}
	}
	kept := make([]string, 0)
	for _, line := range strings.Split(pruned, "\n") {
		trimmed := strings.TrimSpace(line)
		normalized := normalize(trimmed)
		if normalized == "" || answerLines[normalized] {
			continue
		}
		kept = append(kept, trimmed)
	}
	result := strings.TrimSpace(strings.Join(kept, "\n"))
	return result, result != strings.TrimSpace(reasoning)
}
