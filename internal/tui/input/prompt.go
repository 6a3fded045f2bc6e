// Package input parses the calendar's slash-command prompt.
package input

import (
	"errors"
	"strings"
)

// Prompt errors.
var (
	ErrNotCommand     = errors.New("prompt must start with /")
	ErrUnknownCommand = errors.New("unknown command")
	ErrMissingArgs    = errors.New("command needs an argument")
)

// PromptCommand describes a command suggestion entry.
type PromptCommand struct {
	Name        string
	Description string
	NeedsArgs   bool
}

// Commands available in the calendar prompt.
var Commands = []PromptCommand{
	{Name: "/book", Description: "describe a booking, the assistant drafts it", NeedsArgs: true},
	{Name: "/goto", Description: "jump to a day: 2025-03-14, tomorrow, friday", NeedsArgs: true},
	{Name: "/staff", Description: "show one staff member, or all", NeedsArgs: true},
	{Name: "/free", Description: "jump to the next opening: /free 45 min", NeedsArgs: true},
	{Name: "/hide", Description: "hide hours: /hide 12,13", NeedsArgs: true},
	{Name: "/unhide", Description: "show hidden hours again: /unhide 13", NeedsArgs: true},
}

// PromptMatchingCommands returns commands that match the current input prefix.
func PromptMatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	if !strings.HasPrefix(strings.TrimSpace(input), "/") {
		return nil
	}
	if strings.Contains(input, " ") {
		return nil
	}

	prefix := strings.ToLower(strings.TrimSpace(input))
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(strings.ToLower(cmd.Name), prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// PromptAutocomplete returns the first matching command and whether it exists.
func PromptAutocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := PromptMatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Parse splits a prompt line into a known command name and its argument text.
func Parse(line string, commands []PromptCommand) (name, args string, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		return "", "", ErrNotCommand
	}

	name, args, _ = strings.Cut(line, " ")
	name = strings.ToLower(name)
	args = strings.TrimSpace(args)

	for _, cmd := range commands {
		if cmd.Name != name {
			continue
		}
		if cmd.NeedsArgs && args == "" {
			return "", "", ErrMissingArgs
		}
		return name, args, nil
	}
	return "", "", ErrUnknownCommand
}
