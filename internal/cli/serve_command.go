package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"taskshare/internal/web"
)

// ServeCommand runs the HTTP API until interrupted
type ServeCommand struct {
	app *App
}

// NewServeCommand creates a new serve command handler
func NewServeCommand(app *App) *ServeCommand {
	return &ServeCommand{app: app}
}

// Bind registers the command's flags
func (c *ServeCommand) Bind(cmd *cobra.Command) {
	cmd.Flags().String("addr", "", "Listen address (overrides TASKSHARE_SERVER_ADDR)")
}

// Execute serves until ctx is cancelled or the process is interrupted
func (c *ServeCommand) Execute(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	businessAPI, closer, err := c.app.factory(ctx, c.app.config, c.app.logger, nil)
	if err != nil {
		return c.app.errorHandler.Handle("start server", err)
	}
	defer closer()

	server := web.NewServer(businessAPI, c.app.config, c.app.logger)
	return server.Run(ctx, c.app.config.Server.Addr)
}
