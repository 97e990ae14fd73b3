package models

import "strings"

// CommandType enumerates supported chat command categories.
type CommandType string

const (
	CommandStock   CommandType = "stock"
	CommandLow     CommandType = "low"
	CommandUsage   CommandType = "usage"
	CommandHelp    CommandType = "help"
	CommandUnknown CommandType = "unknown"
)

// Command represents a parsed instruction extracted from WhatsApp text.
type Command struct {
	Type CommandType
	Raw  string
	Args []string
}

// ParseCommand derives a Command instance from free-form text messages.
func ParseCommand(message string) Command {
	normalized := strings.TrimSpace(strings.ToLower(message))

	cmd := Command{Raw: message, Type: CommandUnknown}
	tokens := strings.Fields(normalized)
	if len(tokens) == 0 {
		return cmd
	}

	head := strings.TrimPrefix(tokens[0], "/")
	switch head {
	case string(CommandStock), "stats":
		cmd.Type = CommandStock
	case string(CommandLow), "restock":
		cmd.Type = CommandLow
	case string(CommandUsage), "used":
		cmd.Type = CommandUsage
	case string(CommandHelp), "?":
		cmd.Type = CommandHelp
	}

	if len(tokens) > 1 {
		cmd.Args = tokens[1:]
	}

	return cmd
}
