package cli

import "context"

// ToggleCommand handles the task toggle command
type ToggleCommand struct {
	app *App
}

// NewToggleCommand creates a new toggle command handler
func NewToggleCommand(app *App) *ToggleCommand {
	return &ToggleCommand{app: app}
}

// Execute flips the task between todo and done
func (c *ToggleCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	ref, err := parseRef(args[0], session.UID())
	if err != nil {
		return err
	}

	task, err := businessAPI.ToggleStatus(ctx, session, ref)
	if err != nil {
		return c.app.errorHandler.Handle("toggle task", err)
	}

	c.app.printf("Marked %s as %s\n", task.Title, task.Status)
	return nil
}
