package prompt

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"agentui/internal/router"
)

// DefaultSystemPrompt is the response contract sent to the runtime unless the
// configuration overrides it.
const DefaultSystemPrompt = `You are AgenTUI, a focused terminal assistant.

Metadata you receive:
- [Intent] contains the routed category (conversation/filesystem/notebook/mixed), routing confidence, and explicit instructions.
- [Mentioned files] lists vetted paths that you may use without additional validation.

Decision rules:
1. Read the [Intent] block before responding. If it says conversation, answer conversationally and avoid filesystem/notebook tools unless the user explicitly asks for work.
2. For filesystem/notebook/mixed intents, create a concrete plan (use the write_todos tool) and execute steps sequentially until the request is satisfied.
3. When the user clearly requests tool work (files, notebooks, images, shell-like commands), act immediately; do not wait for explicit confirmation unless the intent is ambiguous.
4. For every turn decide whether the plan should be visible to the user:
   - Output a single line 'ReasoningVisible: yes' when the plan/updates are useful (multi-step/tool-heavy work) and stream the plan.
   - Output 'ReasoningVisible: no' when replying to trivial/greeting/acknowledgement messages and omit the plan text entirely.

Planning & streaming expectations:
- When 'ReasoningVisible: yes', begin with a short "Plan:" that lists numbered steps and stream updates as you progress.
- After each tool call, stream a brief description of what happened.
- Prefer tool output over speculation. If a tool fails, explain why and either adjust or ask for clarification.

Available tooling (call them even if the user does not name them):
- list_path, read_file, write_file, append_file
- copy_path, move_path, delete_path, make_directory
- search_text, glob_path, diff_paths
- ipynb_create, ipynb_run, ipynb_analyze

Response contract:
- Use the exact structure below (omit the Plan section entirely when 'ReasoningVisible: no'):

ReasoningVisible: yes|no

Plan:
<live plan and updates streamed as you think, only when ReasoningVisible: yes>

Actions:
- Step N: <tool name> and its concise, user-facing outcome

Answer:
<final conversational summary that states what you accomplished, references the key actions, and directly answers the user. If no tools were required, explain why and respond conversationally.>`

// NotebookGuardrails lists the hints injected once per session when the
// router first picks the notebook intent.
var NotebookGuardrails = []string{
	"Create notebooks with ipynb_create before running them; never assume the file exists.",
	"Run notebooks with ipynb_run and read the execution summary before claiming success.",
	"Keep cells small and idempotent so a failed run can be retried safely.",
	"Write generated artifacts under the workspace and report their paths in the answer.",
	"Use ipynb_analyze to summarize results instead of pasting raw cell output.",
}

// mentionPattern matches @path tokens, optionally double-quoted for paths
// containing spaces.
var mentionPattern = regexp.MustCompile(`@(?:"[^"\n]+"|[A-Za-z0-9@._/-]+)`)

// Options configures one input preparation.
type Options struct {
	WorkspaceRoot string
	// LastIntent carries the previous turn's routed intent for sticky
	// affirmative follow-ups.
	LastIntent router.Intent
	// NotebookTipsShown suppresses the guardrails block after first use.
	NotebookTipsShown bool
	// ResolvePath overrides mention resolution. The default roots every
	// mention inside WorkspaceRoot.
	ResolvePath func(raw string) string
}

// Prepared is the assembled agent input for one user turn.
type Prepared struct {
	Content              string
	Decision             router.Decision
	IncludedNotebookTips bool
	MentionedFiles       []string
}

// PrepareInput routes the prompt, rewrites @mentions to workspace paths and
// appends the metadata blocks the runtime contract expects.
func PrepareInput(text string, opts Options) Prepared {
	mentioned := MentionedFiles(text, opts)
	normalized := ReplaceMentions(text, opts)
	decision := router.Route(text, router.Options{
		HasMention: len(mentioned) > 0,
		LastIntent: opts.LastIntent,
	})
	includeTips := decision.Intent == router.IntentNotebook && !opts.NotebookTipsShown

	blocks := []string{metadataBlock("Intent", []string{
		"category: " + string(decision.Intent),
		fmt.Sprintf("confidence: %.0f%%", decision.Confidence*100),
		"reason: " + decision.Reason,
		"instruction: " + decision.Instructions,
	})}
	if includeTips {
		blocks = append(blocks, metadataBlock("Notebook guardrails", NotebookGuardrails))
	}
	if len(mentioned) > 0 {
		blocks = append(blocks, metadataBlock("Mentioned files", mentioned))
	}

	return Prepared{
		Content:              normalized + "\n\n" + strings.Join(blocks, "\n\n"),
		Decision:             decision,
		IncludedNotebookTips: includeTips,
		MentionedFiles:       mentioned,
	}
}

// MentionedFiles extracts and resolves every @mention in the prompt. Returns
// nil when the prompt has none.
func MentionedFiles(text string, opts Options) []string {
	matches := mentionPattern.FindAllString(text, -1)
	if len(matches) == 0 {
		return nil
	}
	files := make([]string, 0, len(matches))
	for _, match := range matches {
		files = append(files, opts.resolve(cleanMentionToken(match)))
	}
	return files
}

// ReplaceMentions rewrites @mentions in place, keeping a trailing slash on
// directory-style mentions.
func ReplaceMentions(text string, opts Options) string {
	return mentionPattern.ReplaceAllStringFunc(text, func(match string) string {
		resolved := opts.resolve(cleanMentionToken(match))
		if strings.HasSuffix(match, "/") && !strings.HasSuffix(resolved, string(filepath.Separator)) {
			resolved += string(filepath.Separator)
		}
		return resolved
	})
}

// cleanMentionToken strips the @ prefix, surrounding quotes and a trailing
// slash.
func cleanMentionToken(match string) string {
	token := strings.TrimSuffix(match[1:], "/")
	if strings.HasPrefix(token, `"`) && strings.HasSuffix(token, `"`) && len(token) >= 2 {
		token = token[1 : len(token)-1]
	}
	return token
}

// resolve maps a cleaned mention token to an absolute workspace path.
func (opts Options) resolve(raw string) string {
	if opts.ResolvePath != nil {
		return opts.ResolvePath(raw)
	}
	root := opts.WorkspaceRoot
	if root == "" {
		root = "."
	}
	if filepath.IsAbs(raw) && strings.HasPrefix(filepath.Clean(raw), filepath.Clean(root)) {
		return filepath.Clean(raw)
	}
	return filepath.Join(root, strings.TrimPrefix(raw, "/"))
}

// metadataBlock renders a bracketed metadata section with dashed lines.
func metadataBlock(title string, lines []string) string {
	var builder strings.Builder
	builder.WriteString("[" + title + "]")
	for _, line := range lines {
		builder.WriteString("\n- " + line)
	}
	return builder.String()
}
