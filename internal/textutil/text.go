package textutil

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultDetailLimit caps summarized detail strings.
const DefaultDetailLimit = 160

// SummarizeText collapses whitespace and truncates the result to max runes,
// appending an ellipsis when content was cut.
func SummarizeText(value string, max int) string {
	if max <= 0 {
		max = DefaultDetailLimit
	}
	clean := NormalizeSpace(value)
	if clean == "" {
		return ""
	}
	runes := []rune(clean)
	if len(runes) > max {
		return string(runes[:max]) + "…"
	}
	return clean
}

// NormalizeSpace collapses runs of whitespace into single spaces and trims.
func NormalizeSpace(value string) string {
	return strings.Join(strings.Fields(value), " ")
}

// NormalizeContent flattens a model content payload into plain text. Content
// arrives as a string, a list of parts, or an object carrying a text field.
func NormalizeContent(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		var builder strings.Builder
		for _, entry := range typed {
			builder.WriteString(NormalizeContent(entry))
		}
		return builder.String()
	case map[string]any:
		if text, ok := typed["text"]; ok {
			if s, ok := text.(string); ok {
				return s
			}
			return ""
		}
		raw, err := json.Marshal(typed)
		if err != nil {
			return ""
		}
		return string(raw)
	default:
		return fmt.Sprint(typed)
	}
}

// ExtractText finds the first usable text fragment inside a payload,
// descending through lists, text fields, and nested content wrappers.
func ExtractText(value any) string {
	switch typed := value.(type) {
	case nil:
		return ""
	case string:
		return typed
	case []any:
		for _, entry := range typed {
			if result := ExtractText(entry); result != "" {
				return result
			}
		}
		return ""
	case map[string]any:
		if text, ok := typed["text"].(string); ok {
			return text
		}
		if nested, ok := typed["content"]; ok {
			if result := ExtractText(nested); result != "" {
				return result
			}
		}
		return ""
	default:
		return ""
	}
}

// FormatToolDetail renders an arbitrary tool payload as a short single line.
func FormatToolDetail(payload any, max int) string {
	return SummarizeText(stringifyPayload(payload), max)
}

// stringifyPayload converts a loosely typed payload into raw text.
func stringifyPayload(payload any) string {
	switch typed := payload.(type) {
	case nil:
		return ""
	case string:
		return typed
	default:
		if content := extractWrappedContent(payload); content != "" {
			return content
		}
		raw, err := json.Marshal(payload)
		if err != nil {
			return "[unserializable payload]"
		}
		return string(raw)
	}
}

// extractWrappedContent digs into {kwargs:{content:…}} wrapper objects, a
// shape some runtimes use for tool message payloads.
func extractWrappedContent(payload any) string {
	candidate := payload
	if list, ok := payload.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		candidate = list[0]
	}
	object, ok := candidate.(map[string]any)
	if !ok {
		return ""
	}
	kwargs, ok := object["kwargs"].(map[string]any)
	if !ok {
		return ""
	}
	return ExtractText(kwargs["content"])
}
