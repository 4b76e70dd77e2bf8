package commands

import (
	"maps"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-wikithread/internal/logging"
	"github.com/goliatone/go-wikithread/pkg/interfaces"
)

// Command modules. Each gets its own logger under wikithread.commands.
const (
	ModuleMarkup    = "markup"
	ModuleDocuments = "documents"

	commandModuleRoot = "wikithread.commands"
)

// CommandLogger returns the logger for one command module. A blank module
// logs under "core".
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.ModuleLogger(provider, commandModuleRoot+"."+name), map[string]any{
		"component":      "command",
		"command_module": name,
	})
}

// executionFields builds the fields attached to every entry of one run:
// the message type, the operation when set, then message derived fields.
// Message fields never replace the command identity.
func executionFields[T command.Message](msg T, operation string, derive func(T) map[string]any) map[string]any {
	fields := map[string]any{}
	if derive != nil {
		maps.Copy(fields, derive(msg))
	}
	fields["command"] = command.GetMessageType(msg)
	if operation != "" {
		fields["operation"] = operation
	}
	return fields
}
