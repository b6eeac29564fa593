package cli

import (
	"context"

	"github.com/spf13/cobra"

	"taskshare/internal/domain"
	"taskshare/internal/errors"
)

type exportOptions struct {
	format string
	status string
	sortBy string
}

// ExportCommand writes the visible tasks as CSV or JSON
type ExportCommand struct {
	app  *App
	opts exportOptions
}

// NewExportCommand creates a new export command handler
func NewExportCommand(app *App) *ExportCommand {
	return &ExportCommand{app: app}
}

// Bind registers the command's flags
func (c *ExportCommand) Bind(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&c.opts.format, "format", "f", "", "Export format: csv or json (overrides display.export_default_format)")
	flags.StringVarP(&c.opts.status, "status", "s", "all", "Status filter: all, todo or done")
	flags.StringVar(&c.opts.sortBy, "sort", "createdAt", "Sort by createdAt, priority or dueDate")
}

// Execute runs the export command
func (c *ExportCommand) Execute(ctx context.Context, args []string) error {
	format := c.opts.format
	if format == "" {
		format = c.app.config.Display.ExportDefaultFormat
	}
	if format != "csv" && format != "json" {
		return errors.NewInvalidInputError("format", format, "unsupported format")
	}

	businessAPI, session, err := c.app.Session(ctx)
	if err != nil {
		return err
	}

	tasks, err := businessAPI.ListTasks(ctx, session, domain.ParseFilters(c.opts.status, c.opts.sortBy, ""))
	if err != nil {
		return c.app.errorHandler.Handle("export tasks", err)
	}

	if format == "json" {
		return writeTasksJSON(c.app.out, tasks)
	}
	return writeTasksCSV(c.app.out, tasks, c.app.config.Display.DateFormat)
}
