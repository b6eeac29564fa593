package cli

import "context"

// RemindersCommand lists the tasks due today
type RemindersCommand struct {
	app *App
}

// NewRemindersCommand creates a new reminders command handler
func NewRemindersCommand(app *App) *RemindersCommand {
	return &RemindersCommand{app: app}
}

// Execute runs the reminders command
func (c *RemindersCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	reminders, err := businessAPI.Reminders(ctx, session)
	if err != nil {
		return c.app.errorHandler.Handle("load reminders", err)
	}

	if len(reminders) == 0 {
		c.app.printf("No tasks due today\n")
		return nil
	}

	c.app.printf("Due today:\n")
	for _, reminder := range reminders {
		c.app.printf("  %s (%s)\n", reminder.Title, formatRef(reminder.Ref))
	}
	return nil
}
