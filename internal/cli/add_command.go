package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

type addOptions struct {
	description string
	priority    string
	due         string
}

// AddCommand handles the task add command
type AddCommand struct {
	app  *App
	opts addOptions
}

// NewAddCommand creates a new add command handler
func NewAddCommand(app *App) *AddCommand {
	return &AddCommand{app: app}
}

// Bind registers the command's flags
func (c *AddCommand) Bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.opts.description, "description", "d", "", "Task description")
	flags.StringVarP(&c.opts.priority, "priority", "p", "", "Priority: low, medium or high (default medium)")
	flags.StringVar(&c.opts.due, "due", "", "Due date: YYYY-MM-DD, today, tomorrow or +Nd")
}

// Execute runs the add command
func (c *AddCommand) Execute(ctx context.Context, args []string) error {
	input := domain.NewTaskInput{
		Title:       strings.Join(args, " "),
		Description: c.opts.description,
	}

	if c.opts.priority != "" {
		priority, ok := domain.ParsePriority(c.opts.priority)
		if !ok {
			return errors.NewInvalidInputError("priority", c.opts.priority, "must be low, medium or high")
		}
		input.Priority = priority
	}

	due, err := parseDueDate(c.opts.due, timeNow().In(c.app.location()))
	if err != nil {
		return err
	}
	input.DueDate = due

	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	task, err := businessAPI.CreateTask(ctx, session, input)
	if err != nil {
		return c.app.errorHandler.Handle("create task", err)
	}

	c.app.printf("Created task: %s (%s)\n", task.Title, formatRef(task.Ref()))
	return nil
}
