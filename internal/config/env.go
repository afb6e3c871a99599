package config

import (
	"fmt"
	"strconv"
	"strings"
)

// Environment override variables, read once at startup.
const (
	EnvModel           = "AGENTUI_MODEL"
	EnvSystemPrompt    = "AGENTUI_SYSTEM_PROMPT"
	EnvRecursionLimit  = "AGENTUI_RECURSION_LIMIT"
	EnvNotebookRetries = "AGENTUI_NOTEBOOK_RETRIES"
	EnvActionTrace     = "AGENTUI_ACTION_TRACE"
)

// ApplyEnv applies environment overrides to a config. The lookup function is
// injected so tests never touch the process environment.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if value, ok := lookup(EnvModel); ok && strings.TrimSpace(value) != "" {
		cfg.Model = strings.TrimSpace(value)
	}
	if value, ok := lookup(EnvSystemPrompt); ok && strings.TrimSpace(value) != "" {
		cfg.SystemPrompt = value
	}
	if value, ok := lookup(EnvRecursionLimit); ok && strings.TrimSpace(value) != "" {
		limit, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvRecursionLimit, err)
		}
		cfg.RecursionLimit = limit
	}
	if value, ok := lookup(EnvNotebookRetries); ok && strings.TrimSpace(value) != "" {
		retries, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvNotebookRetries, err)
		}
		cfg.NotebookRetries = retries
	}
	if value, ok := lookup(EnvActionTrace); ok {
		cfg.ActionTrace = strings.TrimSpace(value) == "1"
	}
	return nil
}
