package cli

import (
	"context"

	"github.com/spf13/cobra"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

type editOptions struct {
	title       string
	description string
	status      string
	priority    string
	due         string
	clearDue    bool
}

// EditCommand handles the task edit command. Only flags given on the
// command line are written.
type EditCommand struct {
	app  *App
	cmd  *cobra.Command
	opts editOptions
}

// NewEditCommand creates a new edit command handler
func NewEditCommand(app *App) *EditCommand {
	return &EditCommand{app: app}
}

// Bind registers the command's flags
func (c *EditCommand) Bind(cmd *cobra.Command) {
	c.cmd = cmd
	flags := cmd.Flags()
	flags.StringVarP(&c.opts.title, "title", "t", "", "New title")
	flags.StringVarP(&c.opts.description, "description", "d", "", "New description")
	flags.StringVarP(&c.opts.status, "status", "s", "", "New status: todo or done")
	flags.StringVarP(&c.opts.priority, "priority", "p", "", "New priority: low, medium or high")
	flags.StringVar(&c.opts.due, "due", "", "New due date: YYYY-MM-DD, today, tomorrow or +Nd")
	flags.BoolVar(&c.opts.clearDue, "clear-due", false, "Remove the due date")
}

func (c *EditCommand) changed(name string) bool {
	return c.cmd != nil && c.cmd.Flags().Changed(name)
}

// Execute runs the edit command
func (c *EditCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	ref, err := parseRef(args[0], session.UID())
	if err != nil {
		return err
	}

	patch, err := c.patch()
	if err != nil {
		return err
	}

	task, err := businessAPI.UpdateTask(ctx, session, ref, patch)
	if err != nil {
		return c.app.errorHandler.Handle("update task", err)
	}

	c.app.printf("Updated task: %s\n", task.Title)
	return nil
}

func (c *EditCommand) patch() (domain.TaskPatch, error) {
	var patch domain.TaskPatch

	if c.changed("title") {
		patch.Title = &c.opts.title
	}
	if c.changed("description") {
		patch.Description = &c.opts.description
	}
	if c.changed("status") {
		status, ok := domain.ParseStatus(c.opts.status)
		if !ok {
			return patch, errors.NewInvalidInputError("status", c.opts.status, "must be todo or done")
		}
		patch.Status = &status
	}
	if c.changed("priority") {
		priority, ok := domain.ParsePriority(c.opts.priority)
		if !ok {
			return patch, errors.NewInvalidInputError("priority", c.opts.priority, "must be low, medium or high")
		}
		patch.Priority = &priority
	}
	if c.changed("due") {
		due, err := parseDueDate(c.opts.due, timeNow().In(c.app.location()))
		if err != nil {
			return patch, err
		}
		if due == nil {
			patch.ClearDueDate = true
		} else {
			patch.DueDate = due
		}
	}
	if c.opts.clearDue {
		patch.ClearDueDate = true
	}
	return patch, nil
}
