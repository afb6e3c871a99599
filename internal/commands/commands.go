// Package commands parses the slash commands a user can type instead of a
// prompt.
package commands

import "strings"

// Kind identifies a slash command.
type Kind string

const (
	// KindModel switches or reports the active model.
	KindModel Kind = "model"
	// KindNew resets the session.
	KindNew Kind = "new"
	// KindUndo removes the last completed turn.
	KindUndo Kind = "undo"
	// KindFiles lists workspace files.
	KindFiles Kind = "files"
	// KindQuit ends the program.
	KindQuit Kind = "quit"
	// KindExit ends the program.
	KindExit Kind = "exit"
)

// Command is one parsed slash command. Value carries the argument for
// commands that take one (currently only /model).
type Command struct {
	Kind  Kind
	Value string
}

// Parse returns the slash command in input, or nil when the input is a plain
// prompt or an unknown command.
func Parse(input string) *Command {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") {
		return nil
	}
	rest := trimmed[1:]
	if rest == "" || rest[0] == ' ' || rest[0] == '\t' {
		return nil
	}
	fields := strings.Fields(rest)
	value := strings.Join(fields[1:], " ")
	switch strings.ToLower(fields[0]) {
	case "model":
		return &Command{Kind: KindModel, Value: value}
	case "new":
		return &Command{Kind: KindNew}
	case "undo":
		return &Command{Kind: KindUndo}
	case "files":
		return &Command{Kind: KindFiles}
	case "quit":
		return &Command{Kind: KindQuit}
	case "exit":
		return &Command{Kind: KindExit}
	default:
		return nil
	}
}
