package router

import (
	"regexp"
	"strings"
)

// Intent classifies the purpose of a user prompt.
type Intent string

const (
	IntentConversation Intent = "conversation"
	IntentFilesystem   Intent = "filesystem"
	IntentNotebook     Intent = "notebook"
	IntentMixed        Intent = "mixed"
)

// Decision is the routing outcome for one user turn.
type Decision struct {
	Intent       Intent
	Confidence   float64
	Reason       string
	Instructions string
}

// Options carries caller-side signals into routing.
type Options struct {
	// HasMention is set when the caller detected an @path-style reference.
	HasMention bool
	// LastIntent carries the previous turn's intent for sticky follow-ups.
	LastIntent Intent
}

var affirmativePattern = regexp.MustCompile(
	`(?i)^(yes|y|yep|yup|sure|please|please do|go ahead|do it|sounds good|okay|ok|alright|confirm)\b`)

var greetingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(hi|hello|hey|yo)\b`),
	regexp.MustCompile(`(?i)good (morning|afternoon|evening)`),
	regexp.MustCompile(`(?i)^thanks\b`),
	regexp.MustCompile(`(?i)^thank you\b`),
	regexp.MustCompile(`(?i)^howdy\b`),
}

var questionPattern = regexp.MustCompile(`\?|explain|what|why|how`)

var wildcardExtensionPattern = regexp.MustCompile(`(?i)\*\.[a-z0-9]+`)

var extensionTokenPattern = regexp.MustCompile(`(?i)\.(\w{1,5})`)

var fileKeywords = []string{
	"list", "ls", "show", "list out", "listings",
	"read", "write", "append", "insert", "open", "view",
	"cat", "tail", "head",
	"copy", "move", "rename", "delete", "remove", "rm", "mkdir",
	"files", "file", "folder", "folders", "directory", "directories",
	"workspace", "repo", "repository", "project root", "create file",
	"glob", "search", "diff", "compare",
	"top level", "level 0", "file tree", "analyze image",
}

var notebookKeywords = []string{
	"notebook", "jupyter", "cell", "ipynb", "kernel", "nb",
	"run cell", "create notebook",
}

var extensionHints = map[string]bool{
	"md": true, "ts": true, "tsx": true, "js": true, "json": true,
	"py": true, "ipynb": true, "jpg": true, "jpeg": true, "png": true,
}

// Route scores a prompt against keyword and pattern heuristics and returns
// the dominant intent with a confidence in [0,1]. The margins below are
// behavioral contracts, not tunables.
func Route(prompt string, opts Options) Decision {
	trimmed := strings.TrimSpace(prompt)
	normalized := strings.ToLower(trimmed)
	var conversation, filesystem, notebook float64

	if affirmativePattern.MatchString(trimmed) && opts.LastIntent != "" && opts.LastIntent != IntentConversation {
		return Decision{
			Intent:       opts.LastIntent,
			Confidence:   1,
			Reason:       "Affirmative reply referencing prior tool intent.",
			Instructions: instructionsFor(opts.LastIntent),
		}
	}

	if trimmed == "" {
		conversation += 2
	}
	if opts.HasMention {
		filesystem += 2
	}
	for _, pattern := range greetingPatterns {
		if pattern.MatchString(trimmed) {
			conversation += 3
			break
		}
	}
	if questionPattern.MatchString(normalized) {
		conversation += 1
	}
	for _, keyword := range fileKeywords {
		if strings.Contains(normalized, keyword) {
			filesystem += 0.75
		}
	}
	for _, keyword := range notebookKeywords {
		if strings.Contains(normalized, keyword) {
			notebook += 2
		}
	}
	if wildcardExtensionPattern.MatchString(trimmed) {
		filesystem += 1.5
	}
	for _, match := range extensionTokenPattern.FindAllStringSubmatch(trimmed, -1) {
		if extensionHints[strings.ToLower(match[1])] {
			filesystem += 1.5
		}
	}

	total := conversation + filesystem + notebook
	intent := IntentMixed
	dominant := 0.0
	if total == 0 {
		intent = IntentConversation
		dominant = 1
	} else {
		dominant = max3(conversation, filesystem, notebook)
		switch {
		case dominant == conversation && dominant >= filesystem+1 && dominant >= notebook+1:
			intent = IntentConversation
		case dominant == notebook && notebook >= filesystem+0.5:
			intent = IntentNotebook
		case dominant == filesystem && filesystem >= notebook:
			intent = IntentFilesystem
		case dominant == 0:
			intent = IntentConversation
		default:
			intent = IntentMixed
		}
	}

	confidence := 1.0
	if total != 0 {
		confidence = dominant / maxFloat(1, total)
		if confidence > 1 {
			confidence = 1
		}
	}

	return Decision{
		Intent:       intent,
		Confidence:   confidence,
		Reason:       reasonFor(intent),
		Instructions: instructionsFor(intent),
	}
}

// instructionsFor returns the prompt instruction text for an intent.
func instructionsFor(intent Intent) string {
	switch intent {
	case IntentConversation:
		return "Respond conversationally and avoid filesystem or notebook tools unless the user explicitly asks for work."
	case IntentFilesystem:
		return "Plan filesystem actions, keep your to-do list updated, and describe every tool result in plain language."
	case IntentNotebook:
		return "Use notebook/ipynb helpers (create/run/analyze/patch/artifacts) with filesystem tools, updating the plan and reporting artifact locations clearly."
	default:
		return "Blend conversational guidance with the necessary filesystem/notebook tools, explaining why each action is needed."
	}
}

// reasonFor describes which signal class drove the decision.
func reasonFor(intent Intent) string {
	switch intent {
	case IntentConversation:
		return "No strong filesystem or notebook cues detected."
	case IntentFilesystem:
		return "Detected filesystem verbs, mentions, or explicit file references."
	case IntentNotebook:
		return "Notebook-specific language detected."
	default:
		return "Prompt mixes conversational context with tool-oriented cues."
	}
}

func max3(a, b, c float64) float64 {
	return maxFloat(a, maxFloat(b, c))
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
