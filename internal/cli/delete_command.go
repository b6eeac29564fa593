package cli

import (
	"context"

	"github.com/spf13/cobra"

	"taskshare/internal/errors"
)

// DeleteCommand handles the task delete command
type DeleteCommand struct {
	app *App
	yes bool
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Bind registers the command's flags
func (c *DeleteCommand) Bind(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&c.yes, "yes", "y", false, "Delete without asking for confirmation")
}

// Execute deletes a task after confirmation
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	ref, err := parseRef(args[0], session.UID())
	if err != nil {
		return err
	}

	task, err := businessAPI.GetTask(ctx, session, ref)
	if err != nil {
		return c.app.errorHandler.Handle("delete task", err)
	}

	confirmed := c.yes
	if !confirmed {
		if !c.app.interactive() {
			return errors.NewValidationError("refusing to delete without confirmation; pass --yes", nil)
		}
		confirmed = c.app.confirm("Delete task \"" + task.Title + "\"? This cannot be undone.")
		if !confirmed {
			c.app.printf("Delete cancelled.\n")
			return nil
		}
	}

	if err := businessAPI.DeleteTask(ctx, session, ref, confirmed); err != nil {
		return c.app.errorHandler.Handle("delete task", err)
	}

	c.app.printf("Deleted task: %s\n", task.Title)
	return nil
}
