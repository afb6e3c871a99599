package summary

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"agentui/internal/textutil"
)

// Status describes a tool action lifecycle phase.
type Status string

const (
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// toolAliases maps shorthand tool names onto canonical ids.
var toolAliases = map[string]string{
	"ls":    "list_path",
	"dir":   "list_path",
	"cat":   "read_file",
	"read":  "read_file",
	"write": "write_file",
	"append": "append_file",
	"rm":    "delete_path",
	"del":   "delete_path",
	"cp":    "copy_path",
	"mv":    "move_path",
	"mkdir": "make_directory",
	"glob":  "glob_path",
	"grep":  "search_text",
	"diff":  "diff_paths",
}

// prettyNames overrides display labels for known tools.
var prettyNames = map[string]string{
	"list_path":      "list path",
	"read_file":      "read file",
	"write_file":     "write file",
	"append_file":    "append file",
	"copy_path":      "copy path",
	"move_path":      "move path",
	"delete_path":    "delete path",
	"make_directory": "make directory",
	"search_text":    "search text",
	"glob_path":      "glob path",
	"diff_paths":     "diff files",
	"write_todos":    "update todo list",
	"ipynb_create":   "create notebook",
	"ipynb_run":      "run notebook",
	"ipynb_analyze":  "summarize notebook",
}

var (
	listingHeaderPattern = regexp.MustCompile(`(?i)Listing for (.+?):`)
	copySentencePattern  = regexp.MustCompile(`(?i)Copied (.+?) to (.+?)\.`)
	globNoMatchPattern   = regexp.MustCompile(`(?i)No files matched pattern "([^"]*)" under (.+?)\.`)
	createdDirPattern    = regexp.MustCompile(`(?i)Created directory (.+)`)
	truncatedReadPattern = regexp.MustCompile(`(?i)truncated \((\d+) more bytes\)`)
	emptyListingPattern  = regexp.MustCompile(`(?i)^directory is empty`)
	noMatchPatterns      = []*regexp.Regexp{
		regexp.MustCompile(`(?i)no files matched pattern`),
		regexp.MustCompile(`(?i)no matches`),
		regexp.MustCompile(`(?i)directory is empty`),
	}
)

// params bundles the inputs to a per-tool formatter.
type params struct {
	rawName    string
	normalized string
	status     Status
	input      any
	output     any
}

// DescribeToolAction renders a one-line human-readable description for a
// tool invocation. It is total: formatter failures fall back to the generic
// description instead of panicking.
func DescribeToolAction(rawName string, input, output any, status Status) (detail string) {
	normalized := normalizeName(rawName)
	p := params{rawName: rawName, normalized: normalized, status: status, input: input, output: output}
	defer func() {
		if recover() != nil {
			detail = describeGeneric(p)
		}
	}()
	formatter, ok := formatters[normalized]
	if !ok {
		return textutil.SummarizeText(describeGeneric(p), textutil.DefaultDetailLimit)
	}
	return textutil.SummarizeText(formatter(p), textutil.DefaultDetailLimit)
}

// normalizeName lowers a tool name and resolves shorthand aliases.
func normalizeName(raw string) string {
	if raw == "" {
		return "tool"
	}
	lower := strings.ToLower(raw)
	if canonical, ok := toolAliases[lower]; ok {
		return canonical
	}
	return lower
}

// prettyName returns a display label for a canonical tool id.
func prettyName(normalized, raw string) string {
	if label, ok := prettyNames[normalized]; ok {
		return label
	}
	if raw != "" {
		return strings.ReplaceAll(raw, "_", " ")
	}
	return strings.ReplaceAll(normalized, "_", " ")
}

var formatters = map[string]func(params) string{
	"list_path": func(p params) string {
		target := formatPath(pickField(p.input, "targetPath", "dir_path", "path"))
		if target == "/" {
			if fromOutput := extractListingPath(p.output); fromOutput != "" {
				target = fromOutput
			}
		}
		if p.status != StatusSuccess {
			return fmt.Sprintf("Listed %s", target)
		}
		if summary := summarizeListing(p.output); summary != "" {
			return fmt.Sprintf("Listed %s (%s)", target, summary)
		}
		return fmt.Sprintf("Listed %s", target)
	},
	"read_file": func(p params) string {
		target := formatPath(pickField(p.input, "targetPath", "file_path"))
		if size := summarizeRead(p.output); size != "" {
			return fmt.Sprintf("Read %s (%s)", target, size)
		}
		return fmt.Sprintf("Read %s", target)
	},
	"write_file": func(p params) string {
		target := pickField(p.input, "targetPath", "file_path")
		body := pickField(p.input, "content", "text")
		return fmt.Sprintf("Wrote %s (%d char%s)", target, len(body), plural(len(body)))
	},
	"append_file": func(p params) string {
		target := pickField(p.input, "targetPath", "file_path")
		body := pickField(p.input, "content", "text")
		return fmt.Sprintf("Appended %d char%s to %s", len(body), plural(len(body)), target)
	},
	"copy_path": func(p params) string {
		source := pickField(p.input, "sourcePath", "source_path")
		destination := pickField(p.input, "destinationPath", "destination_path")
		if source == "" || destination == "" {
			if from, to, ok := extractCopyPaths(p.output); ok {
				if source == "" {
					source = from
				}
				if destination == "" {
					destination = to
				}
			}
		}
		line := fmt.Sprintf("Copied %s → %s", formatPath(source), formatPath(destination))
		if boolField(p.input, "overwrite") {
			line += " (overwrite)"
		}
		return line
	},
	"move_path": func(p params) string {
		source := pickField(p.input, "sourcePath", "source_path")
		destination := pickField(p.input, "destinationPath", "destination_path")
		if source == "" || destination == "" {
			if from, to, ok := extractCopyPaths(p.output); ok {
				if source == "" {
					source = from
				}
				if destination == "" {
					destination = to
				}
			}
		}
		return fmt.Sprintf("Moved %s → %s", formatPath(source), formatPath(destination))
	},
	"delete_path": func(p params) string {
		if text, ok := p.output.(string); ok && strings.HasPrefix(text, "Deleted ") {
			return text
		}
		return fmt.Sprintf("Deleted %s", formatPath(pickField(p.input, "targetPath", "file_path")))
	},
	"make_directory": func(p params) string {
		target := pickField(p.input, "targetPath", "dir_path")
		if target == "" {
			if text, ok := p.output.(string); ok {
				if match := createdDirPattern.FindStringSubmatch(text); match != nil {
					target = match[1]
				}
			}
		}
		return fmt.Sprintf("Created directory %s", formatPath(target))
	},
	"search_text": func(p params) string {
		pattern := pickField(p.input, "pattern", "query")
		target := formatPath(pickField(p.input, "targetPath", "dir_path", "path"))
		matches := summarizeMatches(p.output)
		return fmt.Sprintf("Searched %q under %s (%d match%s)", pattern, target, matches, pluralES(matches))
	},
	"glob_path": func(p params) string {
		pattern := pickField(p.input, "pattern")
		base := pickField(p.input, "targetPath", "dir_path", "path")
		if pattern == "" {
			if pat, under, ok := extractGlobNoMatch(p.output); ok {
				pattern = pat
				if base == "" {
					base = under
				}
			}
		}
		matches := summarizeMatches(p.output)
		depth := intField(p.input, "maxDepth")
		return fmt.Sprintf("Glob %q under %s (depth %d, %d match%s)", pattern, formatPath(base), depth, matches, pluralES(matches))
	},
	"diff_paths": func(p params) string {
		left := formatPath(pickField(p.input, "leftPath", "left_path"))
		right := formatPath(pickField(p.input, "rightPath", "right_path"))
		if text, ok := p.output.(string); ok && strings.Contains(text, "identical") {
			return fmt.Sprintf("Diffed %s vs %s (identical)", left, right)
		}
		return fmt.Sprintf("Diffed %s vs %s", left, right)
	},
	"write_todos": func(p params) string {
		if p.status == StatusRunning {
			return "Updating to-do list"
		}
		if text, ok := p.output.(string); ok {
			return textutil.SummarizeText(text, 120)
		}
		raw, err := json.Marshal(p.output)
		if err != nil {
			return "Updated to-do list"
		}
		return textutil.SummarizeText(string(raw), 120)
	},
	"ipynb_create": func(p params) string {
		target := formatPath(pickField(p.input, "outputPath", "output_path"))
		if p.status != StatusSuccess {
			return fmt.Sprintf("Creating notebook %s", target)
		}
		return fmt.Sprintf("Created notebook %s", target)
	},
	"ipynb_run": func(p params) string {
		input := formatPath(pickField(p.input, "inputPath", "input_path"))
		if p.status != StatusSuccess {
			return fmt.Sprintf("Running notebook %s", input)
		}
		if text := textutil.FormatToolDetail(p.output, 200); text != "" {
			beforeRaw := strings.TrimSpace(strings.SplitN(text, "Raw response:", 2)[0])
			if beforeRaw != "" {
				return beforeRaw
			}
			return textutil.SummarizeText(text, 140)
		}
		output := formatPath(pickField(p.input, "outputPath", "output_path"))
		return fmt.Sprintf("Ran notebook %s → %s", input, output)
	},
	"ipynb_analyze": func(p params) string {
		return fmt.Sprintf("Summarized notebook %s", formatPath(pickField(p.input, "inputPath", "input_path")))
	},
}

// describeGeneric formats tools without a dedicated rule.
func describeGeneric(p params) string {
	label := prettyName(p.normalized, p.rawName)
	if p.status == StatusRunning {
		return fmt.Sprintf("Running %s", label)
	}
	summary := textutil.SummarizeText(textutil.FormatToolDetail(p.output, textutil.DefaultDetailLimit), 80)
	if summary == "" {
		return label
	}
	return fmt.Sprintf("%s: %s", label, summary)
}

// formatPath substitutes the workspace root for missing paths.
func formatPath(value string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return "/"
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

func pluralES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}

// summarizeListing counts entries after the listing header line.
func summarizeListing(output any) string {
	text, ok := output.(string)
	if !ok {
		return ""
	}
	lines := strings.Split(text, "\n")
	entries := 0
	for i, line := range lines {
		if i == 0 {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || emptyListingPattern.MatchString(trimmed) {
			continue
		}
		entries++
	}
	if entries == 1 {
		return "1 entry"
	}
	return fmt.Sprintf("%d entries", entries)
}

// summarizeRead reports read size or the truncation notice.
func summarizeRead(output any) string {
	text, ok := output.(string)
	if !ok {
		return ""
	}
	if match := truncatedReadPattern.FindStringSubmatch(text); match != nil {
		return fmt.Sprintf("first chunk, %s more byte(s) available", match[1])
	}
	return fmt.Sprintf("%d character(s)", len(text))
}

// summarizeMatches counts non-empty result lines, treating the known
// no-match sentences as zero.
func summarizeMatches(output any) int {
	text, ok := output.(string)
	if !ok {
		return 0
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0
	}
	for _, pattern := range noMatchPatterns {
		if pattern.MatchString(trimmed) {
			return 0
		}
	}
	count := 0
	for _, line := range strings.Split(trimmed, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

// extractListingPath recovers the listed path from a listing header.
func extractListingPath(output any) string {
	text, ok := output.(string)
	if !ok {
		return ""
	}
	if match := listingHeaderPattern.FindStringSubmatch(text); match != nil {
		return match[1]
	}
	return ""
}

// extractCopyPaths recovers source and destination from a copy sentence.
func extractCopyPaths(output any) (string, string, bool) {
	text, ok := output.(string)
	if !ok {
		return "", "", false
	}
	if match := copySentencePattern.FindStringSubmatch(text); match != nil {
		return match[1], match[2], true
	}
	return "", "", false
}

// extractGlobNoMatch recovers pattern and base from a no-match sentence.
func extractGlobNoMatch(output any) (string, string, bool) {
	text, ok := output.(string)
	if !ok {
		return "", "", false
	}
	if match := globNoMatchPattern.FindStringSubmatch(text); match != nil {
		return match[1], match[2], true
	}
	return "", "", false
}
