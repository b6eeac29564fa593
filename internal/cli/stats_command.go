package cli

import "context"

// StatsCommand summarizes the visible tasks
type StatsCommand struct {
	app *App
}

// NewStatsCommand creates a new stats command handler
func NewStatsCommand(app *App) *StatsCommand {
	return &StatsCommand{app: app}
}

// Execute runs the stats command
func (c *StatsCommand) Execute(ctx context.Context, args []string) error {
	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	stats, err := businessAPI.Statistics(ctx, session)
	if err != nil {
		return c.app.errorHandler.Handle("load statistics", err)
	}

	c.app.printf("Total:     %d\n", stats.Total)
	c.app.printf("To do:     %d\n", stats.Todo)
	c.app.printf("Done:      %d\n", stats.Done)
	c.app.printf("Due today: %d\n", stats.DueToday)
	c.app.printf("Overdue:   %d\n", stats.Overdue)
	return nil
}
