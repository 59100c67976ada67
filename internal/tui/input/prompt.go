// Package input parses what is typed into the TUI prompt.
package input

import "strings"

// PromptCommand describes a slash command offered by the prompt.
type PromptCommand struct {
	Name        string
	Usage       string
	Description string
}

// Commands are the slash commands the prompt understands.
var Commands = []PromptCommand{
	{Name: "/plan", Usage: "/plan <mood>", Description: "Suggest a few small tasks for how you feel"},
	{Name: "/goto", Usage: "/goto <date>", Description: "Jump to a date (today, tomorrow, friday, 2025-01-15)"},
}

// MatchingCommands returns commands that match the current input prefix.
// Nothing matches once an argument is being typed.
func MatchingCommands(input string, commands []PromptCommand) []PromptCommand {
	trimmed := strings.TrimSpace(input)
	if !strings.HasPrefix(trimmed, "/") || strings.Contains(trimmed, " ") {
		return nil
	}

	prefix := strings.ToLower(trimmed)
	matches := make([]PromptCommand, 0, len(commands))
	for _, cmd := range commands {
		if strings.HasPrefix(cmd.Name, prefix) {
			matches = append(matches, cmd)
		}
	}
	return matches
}

// Autocomplete returns the first matching command followed by a space.
func Autocomplete(input string, commands []PromptCommand) (string, bool) {
	matches := MatchingCommands(input, commands)
	if len(matches) == 0 {
		return "", false
	}
	return matches[0].Name + " ", true
}

// Parse splits prompt input into a command name and its argument.
// Text without a leading slash is treated as a mood for /plan.
func Parse(input string) (name, arg string) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", ""
	}
	if !strings.HasPrefix(s, "/") {
		return "/plan", s
	}
	name, arg, _ = strings.Cut(s, " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}
