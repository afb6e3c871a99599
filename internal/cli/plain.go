package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"agentui/internal/agent"
	slashcmd "agentui/internal/commands"
	"agentui/internal/config"
	"agentui/internal/session"
	"agentui/internal/stream"
	"agentui/internal/ui/chat"
)

// runPlainChat drives turns line by line without the full-screen UI.
func runPlainChat(runner *agent.Runner, stdin io.Reader, stdout, stderr io.Writer) int {
	state := session.InitialState()
	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	fmt.Fprintf(stdout, "agentui (%s). Type a prompt, /quit to exit.\n", runner.Model())
	for {
		fmt.Fprint(stdout, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if cmd := slashcmd.Parse(line); cmd != nil {
			var done bool
			state, done = applyPlainCommand(runner, state, cmd, stdout)
			if done {
				return ExitOK
			}
			continue
		}
		next, result, err := runner.RunTurn(context.Background(), state, line, nil)
		state = next
		if err != nil {
			fmt.Fprintf(stderr, "Turn failed: %v\n", err)
			continue
		}
		printTurn(stdout, runner, result)
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(stderr, "Read input: %v\n", err)
		return ExitError
	}
	return ExitOK
}

// applyPlainCommand executes one slash command. The bool result requests
// loop exit.
func applyPlainCommand(runner *agent.Runner, state session.State, cmd *slashcmd.Command, stdout io.Writer) (session.State, bool) {
	switch cmd.Kind {
	case slashcmd.KindQuit, slashcmd.KindExit:
		return state, true
	case slashcmd.KindNew:
		runner.Reset()
		fmt.Fprintln(stdout, "Session reset.")
		return session.InitialState(), false
	case slashcmd.KindUndo:
		state = session.Reduce(state, session.UndoLastTurn(runner.ContextWindow()))
		fmt.Fprintln(stdout, "Removed the last turn.")
		return state, false
	case slashcmd.KindModel:
		if strings.TrimSpace(cmd.Value) == "" {
			fmt.Fprintf(stdout, "Model: %s. Known: %s\n", runner.Model(), strings.Join(config.KnownModels(), ", "))
			return state, false
		}
		runner.SetModel(cmd.Value)
		fmt.Fprintf(stdout, "Model set to %s.\n", runner.Model())
		return state, false
	case slashcmd.KindFiles:
		fmt.Fprintln(stdout, chat.ListWorkspace(runner.Config.WorkspaceRoot))
		return state, false
	default:
		return state, false
	}
}

// printTurn writes one interpreted turn as plain text.
func printTurn(stdout io.Writer, runner *agent.Runner, result stream.State) {
	if result.ShowReasoning != nil && *result.ShowReasoning && result.Reasoning != "" {
		for _, line := range strings.Split(result.Reasoning, "\n") {
			fmt.Fprintln(stdout, "  "+line)
		}
	}
	for _, action := range result.Actions {
		label := strings.TrimSpace(action.Detail)
		if label == "" {
			label = strings.ReplaceAll(action.Name, "_", " ")
		}
		fmt.Fprintf(stdout, "  [%s] %s\n", action.Status, label)
	}
	if result.Answer != "" {
		fmt.Fprintln(stdout, result.Answer)
	}
	if result.Usage != nil {
		model := result.Model
		if model == "" {
			model = runner.Model()
		}
		fmt.Fprintf(stdout, "(%s, %d tokens)\n", model, result.Usage.TotalTokens)
	}
}
