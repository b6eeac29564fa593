package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

type listOptions struct {
	status string
	sortBy string
	format string
}

// ListCommand handles the task list command
type ListCommand struct {
	app  *App
	opts listOptions
}

// NewListCommand creates a new list command handler
func NewListCommand(app *App) *ListCommand {
	return &ListCommand{app: app}
}

// Bind registers the command's flags
func (c *ListCommand) Bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.opts.status, "status", "s", "all", "Status filter: all, todo or done")
	flags.StringVar(&c.opts.sortBy, "sort", "createdAt", "Sort by createdAt, priority or dueDate")
	flags.StringVarP(&c.opts.format, "format", "f", "", "Output format: table or json (overrides display.list_default_format)")
}

// Execute runs the list command. Arguments form the search query.
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	format := c.opts.format
	if format == "" {
		format = c.app.config.Display.ListDefaultFormat
	}
	if format != "table" && format != "json" {
		return errors.NewInvalidInputError("format", format, "must be table or json")
	}

	filters := domain.ParseFilters(c.opts.status, c.opts.sortBy, strings.Join(args, " "))

	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	tasks, err := businessAPI.ListTasks(ctx, session, filters)
	if err != nil {
		return c.app.errorHandler.Handle("list tasks", err)
	}

	if format == "json" {
		return writeTasksJSON(c.app.out, tasks)
	}
	if len(tasks) == 0 {
		c.app.printf("No tasks found\n")
		return nil
	}
	return writeTaskTable(c.app.out, tasks, session.UID(), timeNow(), c.app.config.Display.DateFormat)
}
