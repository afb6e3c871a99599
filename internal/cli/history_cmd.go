package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"agentui/internal/config"
)

func runHistory(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		flags := flag.NewFlagSet("history", flag.ContinueOnError)
		flags.SetOutput(stderr)
		limit := flags.Int("limit", 20, "maximum turns to show")
		dbPath := flags.String("db", "", "transcript database path (default from config)")
		if err := flags.Parse(args); err != nil {
			return ExitUsage
		}

		path := *dbPath
		if path == "" {
			cfg, err := config.LoadOrDefault(".")
			if err != nil {
				fmt.Fprintf(stderr, "Config error: %v\n", err)
				return ExitError
			}
			path = cfg.HistoryPath
		}

		ctx := context.Background()
		store, err := openHistory(ctx, path)
		if err != nil {
			fmt.Fprintf(stderr, "Open history: %v\n", err)
			return ExitError
		}
		defer store.Close()

		turns, err := store.RecentTurns(ctx, *limit)
		if err != nil {
			fmt.Fprintf(stderr, "Read history: %v\n", err)
			return ExitError
		}
		if len(turns) == 0 {
			fmt.Fprintln(stdout, "No archived turns.")
			return ExitOK
		}
		for _, turn := range turns {
			fmt.Fprintf(stdout, "%s  %-12s  %s\n",
				turn.CreatedAt.Format("2006-01-02 15:04"), turn.Intent, firstLine(turn.Prompt))
			if turn.Answer != "" {
				fmt.Fprintf(stdout, "%18s%s\n", "", firstLine(turn.Answer))
			}
		}
		return ExitOK
	}
}

// firstLine truncates multi-line text to its first line.
func firstLine(text string) string {
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		return text[:i]
	}
	return text
}
