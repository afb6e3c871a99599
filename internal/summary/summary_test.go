package summary

import (
	"strings"
	"testing"
)

// TestDescribeListPathEntryCount verifies entry counting from a listing
// output, including the singular form.
func TestDescribeListPathEntryCount(t *testing.T) {
	output := "Listing for /tmp:\ndir /tmp/a\nfile /tmp/b.txt"
	detail := DescribeToolAction("list_path", map[string]any{"targetPath": "/tmp"}, output, StatusSuccess)
	if !strings.Contains(detail, "(2 entries)") {
		t.Fatalf("expected entry count, got %q", detail)
	}

	single := "Listing for /tmp:\ndir /tmp/a"
	detail = DescribeToolAction("list_path", nil, single, StatusSuccess)
	if !strings.Contains(detail, "(1 entry)") {
		t.Fatalf("expected singular entry, got %q", detail)
	}
	if !strings.Contains(detail, "/tmp") {
		t.Fatalf("expected path recovered from output, got %q", detail)
	}
}

// TestDescribeAliases verifies shorthand names resolve to canonical rules.
func TestDescribeAliases(t *testing.T) {
	detail := DescribeToolAction("ls", map[string]any{"path": "/srv"}, nil, StatusRunning)
	if !strings.Contains(detail, "Listed /srv") {
		t.Fatalf("expected list_path rule via alias, got %q", detail)
	}
	detail = DescribeToolAction("cp", map[string]any{
		"source_path":      "/a",
		"destination_path": "/b",
	}, nil, StatusSuccess)
	if !strings.Contains(detail, "Copied /a → /b") {
		t.Fatalf("expected copy summary, got %q", detail)
	}
}

// TestDescribeCopyFallsBackToOutputSentence verifies path recovery from the
// tool's own output when structured input is missing.
func TestDescribeCopyFallsBackToOutputSentence(t *testing.T) {
	detail := DescribeToolAction("copy_path", nil, "Copied /src/a.txt to /dst/a.txt.", StatusSuccess)
	if !strings.Contains(detail, "Copied /src/a.txt → /dst/a.txt") {
		t.Fatalf("expected paths parsed from output, got %q", detail)
	}
}

// TestDescribeSearchNoMatches verifies no-match sentences report zero.
func TestDescribeSearchNoMatches(t *testing.T) {
	input := map[string]any{"pattern": "todo", "path": "/src"}
	detail := DescribeToolAction("search_text", input, "No matches", StatusSuccess)
	if !strings.Contains(detail, "(0 matches)") {
		t.Fatalf("expected zero matches, got %q", detail)
	}
	detail = DescribeToolAction("search_text", input, "a.go:1: todo", StatusSuccess)
	if !strings.Contains(detail, "(1 match)") {
		t.Fatalf("expected one match, got %q", detail)
	}
}

// TestDescribeNestedInputShapes verifies wrapper and JSON-string inputs are
// tolerated.
func TestDescribeNestedInputShapes(t *testing.T) {
	nested := map[string]any{"input": map[string]any{"input": map[string]any{"file_path": "/etc/hosts"}}}
	detail := DescribeToolAction("read_file", nested, "127.0.0.1 localhost", StatusSuccess)
	if !strings.Contains(detail, "Read /etc/hosts") {
		t.Fatalf("expected nested input unwrapped, got %q", detail)
	}

	encoded := `{"targetPath": "/notes.md", "content": "abc"}`
	detail = DescribeToolAction("write_file", encoded, nil, StatusSuccess)
	if !strings.Contains(detail, "Wrote /notes.md (3 chars)") {
		t.Fatalf("expected JSON-string input parsed, got %q", detail)
	}
}

// TestDescribeGenericFallback verifies unknown tools use the generic rule.
func TestDescribeGenericFallback(t *testing.T) {
	detail := DescribeToolAction("analyze_image", nil, nil, StatusRunning)
	if detail != "Running analyze image" {
		t.Fatalf("expected generic running label, got %q", detail)
	}
	detail = DescribeToolAction("analyze_image", nil, "A plot of sin(x).", StatusSuccess)
	if !strings.Contains(detail, "analyze image: A plot of sin(x).") {
		t.Fatalf("expected generic completion detail, got %q", detail)
	}
}

// TestDescribeTruncatesLongOutput verifies the detail length cap.
func TestDescribeTruncatesLongOutput(t *testing.T) {
	long := strings.Repeat("x", 400)
	detail := DescribeToolAction("write_todos", nil, long, StatusSuccess)
	if len([]rune(detail)) > 161 {
		t.Fatalf("expected truncated detail, got %d runes", len([]rune(detail)))
	}
	if !strings.HasSuffix(detail, "…") {
		t.Fatalf("expected ellipsis marker, got %q", detail)
	}
}

// TestDescribeNeverPanics verifies total behavior on hostile payloads.
func TestDescribeNeverPanics(t *testing.T) {
	hostile := map[string]any{"input": map[string]any{"kwargs": func() {}}}
	detail := DescribeToolAction("glob_path", hostile, make(chan int), StatusSuccess)
	if detail == "" {
		t.Fatalf("expected a fallback description")
	}
}
