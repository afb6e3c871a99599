package cli

import (
	"fmt"
	"io"
)

// Version is the release identifier, overridable at link time.
var Version = "0.1.0-dev"

func runVersion(cmd *Command) func(args []string, stdout, stderr io.Writer) int {
	return func(args []string, stdout, stderr io.Writer) int {
		if wantsHelp(args) {
			printCommandUsage(cmd, stdout)
			return ExitOK
		}
		fmt.Fprintln(stdout, "agentui "+Version)
		return ExitOK
	}
}
