package summary

import (
	"encoding/json"
	"regexp"
	"strings"
)

// normalizeInput unwraps the historical tool input shapes (nested {input:…}
// wrappers, JSON-encoded strings, {kwargs:…} envelopes) into a flat map.
// Returns nil when no structured form can be recovered.
func normalizeInput(input any) map[string]any {
	current := input
	for {
		object, ok := current.(map[string]any)
		if !ok {
			break
		}
		inner, ok := object["input"]
		if !ok {
			break
		}
		current = inner
	}
	if text, ok := current.(string); ok {
		var parsed map[string]any
		if err := json.Unmarshal([]byte(text), &parsed); err != nil {
			return nil
		}
		return parsed
	}
	if object, ok := current.(map[string]any); ok {
		if kwargs, ok := object["kwargs"].(map[string]any); ok {
			return kwargs
		}
		return object
	}
	return nil
}

// fieldFromRaw extracts a quoted string field from the raw payload text when
// structured decoding failed.
func fieldFromRaw(input any, key string) string {
	if input == nil {
		return ""
	}
	raw, ok := input.(string)
	if !ok {
		data, err := json.Marshal(input)
		if err != nil {
			return ""
		}
		raw = string(data)
	}
	pattern, err := regexp.Compile(`(?i)"` + regexp.QuoteMeta(key) + `"\s*:\s*"([^"]*)"`)
	if err != nil {
		return ""
	}
	if match := pattern.FindStringSubmatch(raw); match != nil {
		return match[1]
	}
	return ""
}

// pickField returns the first non-empty string among the key spellings,
// trying the structured payload first and raw-text extraction second.
func pickField(input any, keys ...string) string {
	payload := normalizeInput(input)
	if payload != nil {
		for _, key := range keys {
			if value, ok := payload[key].(string); ok && strings.TrimSpace(value) != "" {
				return value
			}
		}
	}
	for _, key := range keys {
		if value := fieldFromRaw(input, key); value != "" {
			return value
		}
	}
	return ""
}

// boolField reads a boolean flag from the normalized input.
func boolField(input any, key string) bool {
	payload := normalizeInput(input)
	if payload == nil {
		return false
	}
	value, _ := payload[key].(bool)
	return value
}

// intField reads an integer from the normalized input, tolerating JSON
// float decoding.
func intField(input any, key string) int {
	payload := normalizeInput(input)
	if payload == nil {
		return 0
	}
	switch value := payload[key].(type) {
	case int:
		return value
	case float64:
		return int(value)
	}
	return 0
}
