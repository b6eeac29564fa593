package cli

import (
	"context"
	"sort"

	"taskshare/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

// CommandRegistry manages all available commands
type CommandRegistry struct {
	commands map[string]Command
}

// NewCommandRegistry creates a registry holding every task command
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]Command),
	}

	registry.Register("task add", NewAddCommand(app))
	registry.Register("task list", NewListCommand(app))
	registry.Register("task edit", NewEditCommand(app))
	registry.Register("task toggle", NewToggleCommand(app))
	registry.Register("task delete", NewDeleteCommand(app))
	registry.Register("task share", NewShareCommand(app))
	registry.Register("reminders", NewRemindersCommand(app))
	registry.Register("stats", NewStatsCommand(app))
	registry.Register("export", NewExportCommand(app))

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name string, command Command) {
	r.commands[name] = command
}

// Get returns the named command
func (r *CommandRegistry) Get(name string) (Command, bool) {
	command, ok := r.commands[name]
	return command, ok
}

// Names returns the registered command names in order
func (r *CommandRegistry) Names() []string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	command, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command")
	}
	return command.Execute(ctx, args)
}
