package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"agentui/internal/agent"
	"agentui/internal/config"
	"agentui/internal/history"
	"agentui/internal/ui/chat"
)

// stdinReader feeds the plain chat loop; tests substitute it.
var stdinReader io.Reader = os.Stdin

func runChat(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet("chat", flag.ContinueOnError)
		flags.SetOutput(stderr)
		uiMode := flags.String("ui", "auto", "ui mode: auto, live or plain")
		replayPath := flags.String("replay", "", "replay raw events from a JSON file instead of a live runtime")
		noHistory := flags.Bool("no-history", false, "disable transcript archival")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}

		cfg, err := config.LoadOrDefault(".")
		if err != nil {
			fmt.Fprintf(stderr, "Config error: %v\n", err)
			return ExitError
		}

		decision, err := resolveUIMode(*uiMode, stdout)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return ExitUsage
		}
		if decision.warning != "" {
			fmt.Fprintln(stderr, decision.warning)
		}

		provider, err := buildProvider(*replayPath)
		if err != nil {
			fmt.Fprintf(stderr, "Runtime error: %v\n", err)
			return ExitError
		}

		runner := &agent.Runner{Provider: provider, Config: cfg}
		if cfg.ActionTrace {
			runner.Trace = stderr
		}
		if !*noHistory {
			store, err := openHistory(context.Background(), cfg.HistoryPath)
			if err != nil {
				fmt.Fprintf(stderr, "History disabled: %v\n", err)
			} else {
				runner.History = store
				defer store.Close()
			}
		}

		if decision.useLive {
			controller := chat.Start(stdout, runner, chat.Options{})
			controller.Wait()
			controller.Close()
			return ExitOK
		}
		return runPlainChat(runner, stdinReader, stdout, stderr)
	}
}

// buildProvider wires the turn provider. Until a live runtime binding exists
// the only built-in provider replays a recorded event file.
func buildProvider(replayPath string) (agent.Provider, error) {
	if replayPath == "" {
		return nil, fmt.Errorf("no agent runtime configured; pass --replay <events.json>")
	}
	events, err := loadReplayEvents(replayPath)
	if err != nil {
		return nil, err
	}
	return agent.ScriptProvider{Events: events}, nil
}

// openHistory creates the parent directory and opens the transcript store.
func openHistory(ctx context.Context, path string) (*history.Store, error) {
	if path == "" {
		path = config.DefaultHistoryPath
	}
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return history.Open(ctx, path)
}
