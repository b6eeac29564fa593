package cli

import (
	"context"
	"strings"
)

// ShareCommand handles the task share command
type ShareCommand struct {
	app *App
}

// NewShareCommand creates a new share command handler
func NewShareCommand(app *App) *ShareCommand {
	return &ShareCommand{app: app}
}

// Execute grants the user with the given email access to a task
func (c *ShareCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	ref, err := parseRef(args[0], session.UID())
	if err != nil {
		return err
	}
	email := strings.TrimSpace(args[1])

	task, err := businessAPI.ShareTask(ctx, session, ref, email)
	if err != nil {
		return c.app.errorHandler.Handle("share task", err)
	}

	c.app.printf("Shared %s with %s\n", task.Title, email)
	return nil
}
