package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"taskshare/internal/config"
)

// ConfigInitCommand writes a default configuration file
type ConfigInitCommand struct {
	app   *App
	path  func() string
	force bool
}

// NewConfigInitCommand creates a new config init command handler
func NewConfigInitCommand(app *App, path func() string) *ConfigInitCommand {
	return &ConfigInitCommand{app: app, path: path}
}

// Bind registers the command's flags
func (c *ConfigInitCommand) Bind(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&c.force, "force", false, "Overwrite an existing file")
}

// Execute runs the config init command
func (c *ConfigInitCommand) Execute(ctx context.Context, args []string) error {
	path := c.path()
	if err := config.WriteFile(path, config.NewConfig(), c.force); err != nil {
		return err
	}
	c.app.printf("Wrote configuration to %s\n", path)
	return nil
}

// ConfigShowCommand prints the effective configuration with secrets masked
type ConfigShowCommand struct {
	app *App
}

// NewConfigShowCommand creates a new config show command handler
func NewConfigShowCommand(app *App) *ConfigShowCommand {
	return &ConfigShowCommand{app: app}
}

// Execute runs the config show command
func (c *ConfigShowCommand) Execute(ctx context.Context, args []string) error {
	data, err := c.app.config.Redacted().ToYAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	_, err = c.app.out.Write(data)
	return err
}
