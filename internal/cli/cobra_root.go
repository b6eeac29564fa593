package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taskshare/internal/config"
	"taskshare/internal/logging"
)

// Options configures the root command. A nil Config is loaded from the
// config file and environment.
type Options struct {
	Factory APIFactory
	Config  *config.Config
	Out     io.Writer
	Err     io.Writer
	In      io.Reader
}

// flagBinder is implemented by commands that own flags
type flagBinder interface {
	Bind(cmd *cobra.Command)
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd      *cobra.Command
	opts     Options
	app      *App
	registry *CommandRegistry

	configPath string
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts Options) *RootCommand {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.In == nil {
		opts.In = os.Stdin
	}

	root := &RootCommand{opts: opts}
	root.app = NewApp(config.NewConfig(), nil, opts.Factory, opts.Out, opts.In)
	root.registry = NewCommandRegistry(root.app)
	root.registry.Register("serve", NewServeCommand(root.app))
	root.registry.Register("config init", NewConfigInitCommand(root.app, root.ConfigPath))
	root.registry.Register("config show", NewConfigShowCommand(root.app))

	root.cmd = &cobra.Command{
		Use:   "taskshare",
		Short: "A shared task manager",
		Long: `taskshare keeps a personal task list that can be shared with other users by email.

FEATURES:
  • Create, edit, complete and delete tasks with priorities and due dates
  • Share tasks with other users; shared tasks appear in their lists
  • Filter by status, sort by creation date, priority or due date, and search
  • Reminders for tasks due today
  • HTTP API with Google sign-in (taskshare serve)

EXAMPLES:
  taskshare --uid alice --email alice@example.com task add "Write report" -p high --due tomorrow
  taskshare task list --status todo --sort dueDate
  taskshare task list board                  # Search titles and descriptions
  taskshare task toggle 6f1c...              # Mark a task done or todo
  taskshare task share 6f1c... bob@example.com
  taskshare task delete 6f1c... --yes
  taskshare reminders                        # Tasks due today
  taskshare export --format csv > tasks.csv
  taskshare serve --addr :8080

CONFIGURATION:
  Configuration follows this priority order: command-line flags > environment variables > config file > defaults
  The config file is ~/.taskshare/config.yaml unless --config is given.

    TASKSHARE_DB_DRIVER                    Store driver: sqlite or postgres (default: sqlite)
    TASKSHARE_DB_DIR                       sqlite directory (default: ~/.taskshare)
    TASKSHARE_DB_FILENAME                  sqlite filename (default: taskshare.db)
    TASKSHARE_DB_DSN                       postgres connection string
    TASKSHARE_AUTH_PROVIDER                Identity provider for serve: static or google
    TASKSHARE_AUTH_UID / _EMAIL / _NAME    Identity used by the CLI
    TASKSHARE_REMINDERS_TIMEZONE           Time zone that decides "today" (default: Local)
    TASKSHARE_SERVER_ADDR                  HTTP listen address (default: :8080)
    TASKSHARE_LOG_LEVEL                    debug, info, warn or error (default: info)
    TASKSHARE_APP_TIMEOUT                  Per-command timeout (default: 60s)

GETTING HELP:
  taskshare [command] --help               # Get help for any specific command
  taskshare completion bash                # Generate bash completion script`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.configure(cmd)
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// ConfigPath returns the config file selected by --config or the default
func (r *RootCommand) ConfigPath() string {
	if r.configPath != "" {
		return r.configPath
	}
	return config.DefaultConfigPath()
}

// Execute runs the root command and releases the store afterwards
func (r *RootCommand) Execute(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	closeErr := r.app.Close()
	if err != nil {
		return err
	}
	return closeErr
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	flags.StringVar(&r.configPath, "config", "", "Config file (default ~/.taskshare/config.yaml)")

	// Store configuration
	flags.String("db-driver", "", "Store driver: sqlite or postgres (overrides TASKSHARE_DB_DRIVER)")
	flags.String("db-dir", "", "sqlite directory (overrides TASKSHARE_DB_DIR)")
	flags.String("db-filename", "", "sqlite filename (overrides TASKSHARE_DB_FILENAME)")
	flags.String("db-dsn", "", "postgres connection string (overrides TASKSHARE_DB_DSN)")

	// Identity
	flags.String("uid", "", "User id to act as (overrides TASKSHARE_AUTH_UID)")
	flags.String("email", "", "Email of the user (overrides TASKSHARE_AUTH_EMAIL)")
	flags.String("name", "", "Display name of the user (overrides TASKSHARE_AUTH_NAME)")

	// Reminders and logging
	flags.String("timezone", "", "Time zone that decides which tasks are due today (overrides TASKSHARE_REMINDERS_TIMEZONE)")
	flags.String("log-level", "", "Log level (overrides TASKSHARE_LOG_LEVEL)")

	// Application configuration
	flags.Duration("app-timeout", 0, "Per-command timeout (overrides TASKSHARE_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides TASKSHARE_APP_VERBOSE)")
}

// addSubcommands builds the command tree
func (r *RootCommand) addSubcommands() {
	taskCmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	taskCmd.AddCommand(
		r.newCommand("task add", &cobra.Command{
			Use:   "add [title]",
			Short: "Create a task",
			Long: `Create a task owned by the current user.

Examples:
  taskshare task add "Buy milk"
  taskshare task add "Write report" -p high --due +3d -d "Quarterly numbers"`,
			Args: cobra.MinimumNArgs(1),
		}),
		r.newCommand("task list", &cobra.Command{
			Use:   "list [search text]",
			Short: "List owned and shared tasks",
			Long: `List the tasks you own and the tasks shared with you.

Search text matches titles and descriptions, ignoring case.

Examples:
  taskshare task list
  taskshare task list --status done
  taskshare task list --sort priority "board"`,
			Aliases: []string{"ls"},
		}),
		r.newCommand("task edit", &cobra.Command{
			Use:   "edit [task]",
			Short: "Change fields of a task you own",
			Args:  cobra.ExactArgs(1),
		}),
		r.newCommand("task toggle", &cobra.Command{
			Use:   "toggle [task]",
			Short: "Mark a task done, or todo again",
			Args:  cobra.ExactArgs(1),
		}),
		r.newCommand("task delete", &cobra.Command{
			Use:   "delete [task]",
			Short: "Delete a task you own",
			Long: `Delete a task you own.

This operation cannot be undone. You will be asked to confirm unless --yes is given.`,
			Args: cobra.ExactArgs(1),
		}),
		r.newCommand("task share", &cobra.Command{
			Use:   "share [task] [email]",
			Short: "Share a task with another user",
			Long: `Share a task you own with the user registered under the given email.

The user must have signed in at least once.`,
			Args: cobra.ExactArgs(2),
		}),
	)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	configCmd.AddCommand(
		r.newCommand("config init", &cobra.Command{
			Use:   "init",
			Short: "Write a default configuration file",
			Args:  cobra.NoArgs,
		}),
		r.newCommand("config show", &cobra.Command{
			Use:   "show",
			Short: "Print the effective configuration",
			Args:  cobra.NoArgs,
		}),
	)

	r.cmd.AddCommand(
		taskCmd,
		r.newCommand("reminders", &cobra.Command{
			Use:   "reminders",
			Short: "Show tasks due today",
			Args:  cobra.NoArgs,
		}),
		r.newCommand("stats", &cobra.Command{
			Use:   "stats",
			Short: "Summarize your tasks",
			Args:  cobra.NoArgs,
		}),
		r.newCommand("export", &cobra.Command{
			Use:   "export",
			Short: "Export tasks as CSV or JSON",
			Long: `Export the visible tasks.

Supported formats:
  csv  - Comma-separated values
  json - JSON array of tasks

Example:
  taskshare export --format csv > tasks.csv`,
			Args: cobra.NoArgs,
		}),
		r.newCommand("serve", &cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP API",
			Args:  cobra.NoArgs,
		}),
		configCmd,
	)
}

// newCommand binds a registered handler to cmd
func (r *RootCommand) newCommand(name string, cmd *cobra.Command) *cobra.Command {
	if handler, ok := r.registry.Get(name); ok {
		if binder, ok := handler.(flagBinder); ok {
			binder.Bind(cmd)
		}
	}

	timeout := name != "serve"
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if timeout {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.getAppTimeout())
			defer cancel()
		}
		return r.registry.Execute(ctx, name, args)
	}
	return cmd
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.app.config != nil && r.app.config.Application.Timeout > 0 {
		return r.app.config.Application.Timeout
	}
	return 60 * time.Second
}

// configure loads the configuration, applies flag overrides and builds the logger
func (r *RootCommand) configure(cmd *cobra.Command) error {
	overrides := r.overridesFromFlags(cmd)

	var cfg *config.Config
	if r.opts.Config != nil {
		cfg = r.opts.Config
		cfg.ApplyOverrides(overrides)
		if err := cfg.Validate(); err != nil {
			return err
		}
	} else {
		loader := config.NewLoader()
		if r.configPath != "" {
			loader = config.NewLoaderWithFile(r.configPath)
		}
		var err error
		if cfg, err = loader.LoadWithOverrides(overrides); err != nil {
			return err
		}
	}

	level := cfg.Logging.Level
	if cfg.Application.Verbose {
		level = "debug"
	}
	logger, err := logging.New(r.opts.Err, level, cfg.Logging.Format)
	if err != nil {
		return err
	}

	r.app.config = cfg
	r.app.logger = logger
	logging.Debugf("configuration loaded (driver=%s, provider=%s)", cfg.Database.Driver, cfg.Auth.Provider)
	return nil
}

// overridesFromFlags collects the flags that were set on the command line
func (r *RootCommand) overridesFromFlags(cmd *cobra.Command) *config.ConfigOverrides {
	flags := cmd.Flags()
	overrides := &config.ConfigOverrides{}

	stringFlag := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		value, _ := flags.GetString(name)
		return &value
	}

	overrides.DBDriver = stringFlag("db-driver")
	overrides.DBDir = stringFlag("db-dir")
	overrides.DBFilename = stringFlag("db-filename")
	overrides.DBDSN = stringFlag("db-dsn")
	overrides.UID = stringFlag("uid")
	overrides.Email = stringFlag("email")
	overrides.DisplayName = stringFlag("name")
	overrides.Timezone = stringFlag("timezone")
	overrides.LogLevel = stringFlag("log-level")
	if flags.Lookup("addr") != nil {
		overrides.Addr = stringFlag("addr")
	}

	if flags.Changed("app-timeout") {
		timeout, _ := flags.GetDuration("app-timeout")
		overrides.Timeout = &timeout
	}
	if flags.Changed("verbose") {
		verbose, _ := flags.GetBool("verbose")
		overrides.Verbose = &verbose
	}
	return overrides
}
