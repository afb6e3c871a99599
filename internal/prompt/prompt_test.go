package prompt

import (
	"strings"
	"testing"

	"agentui/internal/router"
)

func TestPrepareInputConversation(t *testing.T) {
	prepared := PrepareInput("hello there", Options{WorkspaceRoot: "/ws"})
	if prepared.Decision.Intent != router.IntentConversation {
		t.Fatalf("unexpected intent %q", prepared.Decision.Intent)
	}
	if !strings.HasPrefix(prepared.Content, "hello there\n\n[Intent]\n") {
		t.Fatalf("unexpected content layout:\n%s", prepared.Content)
	}
	if !strings.Contains(prepared.Content, "- category: conversation") {
		t.Fatalf("intent block missing category:\n%s", prepared.Content)
	}
	if !strings.Contains(prepared.Content, "- confidence: 100%") {
		t.Fatalf("intent block missing confidence:\n%s", prepared.Content)
	}
	if strings.Contains(prepared.Content, "[Mentioned files]") {
		t.Fatalf("unexpected mention block:\n%s", prepared.Content)
	}
	if prepared.MentionedFiles != nil {
		t.Fatalf("unexpected mentions %v", prepared.MentionedFiles)
	}
}

func TestPrepareInputResolvesMentions(t *testing.T) {
	prepared := PrepareInput("read @src/main.py now", Options{WorkspaceRoot: "/ws"})
	if len(prepared.MentionedFiles) != 1 || prepared.MentionedFiles[0] != "/ws/src/main.py" {
		t.Fatalf("unexpected mentions %v", prepared.MentionedFiles)
	}
	if !strings.HasPrefix(prepared.Content, "read /ws/src/main.py now\n\n") {
		t.Fatalf("mention not rewritten:\n%s", prepared.Content)
	}
	if !strings.Contains(prepared.Content, "[Mentioned files]\n- /ws/src/main.py") {
		t.Fatalf("mention block missing:\n%s", prepared.Content)
	}
	if prepared.Decision.Intent != router.IntentFilesystem {
		t.Fatalf("unexpected intent %q", prepared.Decision.Intent)
	}
}

func TestPrepareInputQuotedMentionAndTrailingSlash(t *testing.T) {
	opts := Options{WorkspaceRoot: "/ws"}
	files := MentionedFiles(`open @"my file.txt"`, opts)
	if len(files) != 1 || files[0] != "/ws/my file.txt" {
		t.Fatalf("unexpected quoted mention %v", files)
	}
	replaced := ReplaceMentions("list @src/ please", opts)
	if !strings.Contains(replaced, "/ws/src/") {
		t.Fatalf("trailing slash lost: %q", replaced)
	}
}

func TestPrepareInputNotebookGuardrailsShownOnce(t *testing.T) {
	first := PrepareInput("run the notebook", Options{WorkspaceRoot: "/ws"})
	if first.Decision.Intent != router.IntentNotebook {
		t.Fatalf("unexpected intent %q", first.Decision.Intent)
	}
	if !first.IncludedNotebookTips || !strings.Contains(first.Content, "[Notebook guardrails]") {
		t.Fatalf("guardrails missing on first notebook turn:\n%s", first.Content)
	}
	second := PrepareInput("run the notebook", Options{WorkspaceRoot: "/ws", NotebookTipsShown: true})
	if second.IncludedNotebookTips || strings.Contains(second.Content, "[Notebook guardrails]") {
		t.Fatalf("guardrails repeated:\n%s", second.Content)
	}
}

func TestPrepareInputCustomResolver(t *testing.T) {
	prepared := PrepareInput("cat @notes.md", Options{
		ResolvePath: func(raw string) string { return "/custom/" + raw },
	})
	if len(prepared.MentionedFiles) != 1 || prepared.MentionedFiles[0] != "/custom/notes.md" {
		t.Fatalf("resolver not used: %v", prepared.MentionedFiles)
	}
}
