// Package config loads the .agentui.yml settings file and the environment
// overrides read once at startup.
package config

import (
	"agentui/internal/prompt"
)

// Config file constants.
const (
	ConfigFileName = ".agentui.yml"

	DefaultModel           = "gpt-5-mini"
	DefaultRecursionLimit  = 100
	DefaultNotebookRetries = 3
	DefaultHistoryPath     = ".agentui/history.db"
)

// Config holds the settings for one agentui run.
type Config struct {
	// Model is the model identifier requested from the runtime.
	Model string `yaml:"model"`
	// SystemPrompt overrides the built-in response contract.
	SystemPrompt string `yaml:"system_prompt"`
	// WorkspaceRoot anchors mention resolution. Empty means the current
	// directory.
	WorkspaceRoot string `yaml:"workspace_root"`
	// HistoryPath is the DuckDB transcript database, relative to the
	// workspace root unless absolute. Empty disables history.
	HistoryPath string `yaml:"history_path"`
	// RecursionLimit bounds runtime tool-call recursion per turn.
	RecursionLimit int `yaml:"recursion_limit"`
	// NotebookRetries bounds notebook execution retries.
	NotebookRetries int `yaml:"notebook_retries"`
	// ActionTrace enables the interpreter's per-tool trace output.
	ActionTrace bool `yaml:"action_trace"`
	// ContextWindow overrides the model's known context window in tokens.
	// Zero derives it from the model catalog.
	ContextWindow int `yaml:"context_window"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Model:           DefaultModel,
		SystemPrompt:    prompt.DefaultSystemPrompt,
		HistoryPath:     DefaultHistoryPath,
		RecursionLimit:  DefaultRecursionLimit,
		NotebookRetries: DefaultNotebookRetries,
	}
}

// EffectiveContextWindow resolves the context window for the configured
// model.
func (cfg Config) EffectiveContextWindow() int {
	if cfg.ContextWindow > 0 {
		return cfg.ContextWindow
	}
	return ModelContextWindow(cfg.Model)
}
