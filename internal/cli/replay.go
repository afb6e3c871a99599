package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"agentui/internal/stream"
)

// rawEvent is the JSON shape of one replayed lifecycle event.
type rawEvent struct {
	Kind     string         `json:"kind"`
	Name     string         `json:"name,omitempty"`
	RunID    string         `json:"run_id,omitempty"`
	Content  any            `json:"content,omitempty"`
	Input    any            `json:"input,omitempty"`
	Output   any            `json:"output,omitempty"`
	Usage    map[string]any `json:"usage,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var eventKinds = map[string]stream.Kind{
	"model_stream": stream.KindModelStream,
	"model_end":    stream.KindModelEnd,
	"tool_start":   stream.KindToolStart,
	"tool_end":     stream.KindToolEnd,
	"tool_error":   stream.KindToolError,
}

// loadReplayEvents reads a JSON array of raw lifecycle events.
func loadReplayEvents(path string) ([]stream.Event, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var raws []rawEvent
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	events := make([]stream.Event, 0, len(raws))
	for i, raw := range raws {
		kind, ok := eventKinds[raw.Kind]
		if !ok {
			return nil, fmt.Errorf("%s: event %d has unknown kind %q", path, i, raw.Kind)
		}
		events = append(events, stream.Event{
			Kind:     kind,
			Name:     raw.Name,
			RunID:    raw.RunID,
			Content:  raw.Content,
			Input:    raw.Input,
			Output:   raw.Output,
			Usage:    raw.Usage,
			Metadata: raw.Metadata,
		})
	}
	return events, nil
}
