package cli

import (
	"fmt"
	"io"
	"strings"

	"agentui/internal/prompt"
	"agentui/internal/router"
)

func runRoute(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		promptText := strings.TrimSpace(strings.Join(args, " "))
		if promptText == "" {
			fmt.Fprintln(stderr, "route requires a prompt")
			return ExitUsage
		}
		opts := prompt.Options{}
		mentions := prompt.MentionedFiles(promptText, opts)
		decision := router.Route(prompt.ReplaceMentions(promptText, opts), router.Options{
			HasMention: len(mentions) > 0,
		})
		fmt.Fprintf(stdout, "intent: %s\n", decision.Intent)
		fmt.Fprintf(stdout, "confidence: %.0f%%\n", decision.Confidence*100)
		fmt.Fprintf(stdout, "reason: %s\n", decision.Reason)
		if decision.Instructions != "" {
			fmt.Fprintf(stdout, "instruction: %s\n", decision.Instructions)
		}
		for _, mention := range mentions {
			fmt.Fprintf(stdout, "mention: %s\n", mention)
		}
		return ExitOK
	}
}
