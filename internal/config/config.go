package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration options for the taskshare application
type Config struct {
	Database    DatabaseConfig    `yaml:"database" mapstructure:"database"`
	Validation  ValidationConfig  `yaml:"validation" mapstructure:"validation"`
	Reminders   RemindersConfig   `yaml:"reminders" mapstructure:"reminders"`
	Display     DisplayConfig     `yaml:"display" mapstructure:"display"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Auth        AuthConfig        `yaml:"auth" mapstructure:"auth"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Application ApplicationConfig `yaml:"application" mapstructure:"application"`
}

// DatabaseConfig holds task store configuration
type DatabaseConfig struct {
	Driver         string        `yaml:"driver" mapstructure:"driver" env:"TASKSHARE_DB_DRIVER"`
	Dir            string        `yaml:"dir" mapstructure:"dir" env:"TASKSHARE_DB_DIR"`
	Filename       string        `yaml:"filename" mapstructure:"filename" env:"TASKSHARE_DB_FILENAME"`
	DSN            string        `yaml:"dsn" mapstructure:"dsn" env:"TASKSHARE_DB_DSN"`
	QueryTimeout   time.Duration `yaml:"query_timeout" mapstructure:"query_timeout" env:"TASKSHARE_DB_QUERY_TIMEOUT"`
	WriteTimeout   time.Duration `yaml:"write_timeout" mapstructure:"write_timeout" env:"TASKSHARE_DB_WRITE_TIMEOUT"`
	DirPermissions uint32        `yaml:"dir_permissions" mapstructure:"dir_permissions" env:"TASKSHARE_DB_DIR_PERMISSIONS"`
}

// ValidationConfig holds validation rules configuration
type ValidationConfig struct {
	TitleMaxLength       int `yaml:"title_max_length" mapstructure:"title_max_length" env:"TASKSHARE_VALIDATION_TITLE_MAX"`
	DescriptionMaxLength int `yaml:"description_max_length" mapstructure:"description_max_length" env:"TASKSHARE_VALIDATION_DESCRIPTION_MAX"`
}

// RemindersConfig holds due-today reminder configuration
type RemindersConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled" env:"TASKSHARE_REMINDERS_ENABLED"`
	Timezone string `yaml:"timezone" mapstructure:"timezone" env:"TASKSHARE_REMINDERS_TIMEZONE"`
}

// DisplayConfig holds display formatting configuration
type DisplayConfig struct {
	DateFormat          string `yaml:"date_format" mapstructure:"date_format" env:"TASKSHARE_DISPLAY_DATE_FORMAT"`
	ListDefaultFormat   string `yaml:"list_default_format" mapstructure:"list_default_format" env:"TASKSHARE_LIST_DEFAULT_FORMAT"`
	ExportDefaultFormat string `yaml:"export_default_format" mapstructure:"export_default_format" env:"TASKSHARE_EXPORT_DEFAULT_FORMAT"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr" env:"TASKSHARE_SERVER_ADDR"`
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url" env:"TASKSHARE_SERVER_BASE_URL"`
	CookieSecure bool          `yaml:"cookie_secure" mapstructure:"cookie_secure" env:"TASKSHARE_SERVER_COOKIE_SECURE"`
	SessionTTL   time.Duration `yaml:"session_ttl" mapstructure:"session_ttl" env:"TASKSHARE_SERVER_SESSION_TTL"`
}

// AuthConfig holds identity provider configuration
type AuthConfig struct {
	Provider           string           `yaml:"provider" mapstructure:"provider" env:"TASKSHARE_AUTH_PROVIDER"`
	GoogleClientID     string           `yaml:"google_client_id" mapstructure:"google_client_id" env:"TASKSHARE_GOOGLE_CLIENT_ID"`
	GoogleClientSecret string           `yaml:"google_client_secret" mapstructure:"google_client_secret" env:"TASKSHARE_GOOGLE_CLIENT_SECRET"`
	Static             StaticAuthConfig `yaml:"static" mapstructure:"static"`
}

// StaticAuthConfig is the identity used by the static provider
type StaticAuthConfig struct {
	UID         string `yaml:"uid" mapstructure:"uid" env:"TASKSHARE_AUTH_UID"`
	Email       string `yaml:"email" mapstructure:"email" env:"TASKSHARE_AUTH_EMAIL"`
	DisplayName string `yaml:"display_name" mapstructure:"display_name" env:"TASKSHARE_AUTH_NAME"`
}

// LoggingConfig holds structured logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level" env:"TASKSHARE_LOG_LEVEL"`
	Format string `yaml:"format" mapstructure:"format" env:"TASKSHARE_LOG_FORMAT"`
}

// ApplicationConfig holds application-level configuration
type ApplicationConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout" env:"TASKSHARE_APP_TIMEOUT"`
	Verbose bool          `yaml:"verbose" mapstructure:"verbose" env:"TASKSHARE_APP_VERBOSE"`
}

// Supported store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Supported identity providers
const (
	ProviderGoogle = "google"
	ProviderStatic = "static"
)

// NewConfig creates a new configuration with sensible defaults
func NewConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:         DriverSQLite,
			Dir:            DefaultDir(),
			Filename:       "taskshare.db",
			QueryTimeout:   10 * time.Second,
			WriteTimeout:   5 * time.Second,
			DirPermissions: 0755,
		},
		Validation: ValidationConfig{
			TitleMaxLength:       200,
			DescriptionMaxLength: 2000,
		},
		Reminders: RemindersConfig{
			Enabled:  true,
			Timezone: "Local",
		},
		Display: DisplayConfig{
			DateFormat:          "2006-01-02",
			ListDefaultFormat:   "table",
			ExportDefaultFormat: "csv",
		},
		Server: ServerConfig{
			Addr:       ":8080",
			BaseURL:    "http://localhost:8080",
			SessionTTL: 24 * time.Hour,
		},
		Auth: AuthConfig{
			Provider: ProviderStatic,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Application: ApplicationConfig{
			Timeout: 60 * time.Second,
		},
	}
}

// DefaultDir returns ~/.taskshare, or .taskshare when no home directory is available
func DefaultDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".taskshare"
	}
	return filepath.Join(homeDir, ".taskshare")
}

// DefaultConfigPath returns the path of the user config file
func DefaultConfigPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// GetDatabasePath returns the full path to the sqlite database file
func (c *Config) GetDatabasePath() string {
	if c.Database.Filename == ":memory:" {
		return c.Database.Filename
	}
	return filepath.Join(c.Database.Dir, c.Database.Filename)
}

// GetQueryTimeout returns the store query timeout
func (c *Config) GetQueryTimeout() time.Duration {
	return c.Database.QueryTimeout
}

// GetWriteTimeout returns the store write timeout
func (c *Config) GetWriteTimeout() time.Duration {
	return c.Database.WriteTimeout
}

// Location returns the time zone used to decide which tasks are due today
func (c *Config) Location() (*time.Location, error) {
	switch c.Reminders.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	return time.LoadLocation(c.Reminders.Timezone)
}

// RedirectURL returns the OAuth callback URL served by the HTTP surface
func (c *Config) RedirectURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + "/auth/callback"
}

// LoadFromEnvironment loads configuration from environment variables
func (c *Config) LoadFromEnvironment() error {
	// Database configuration
	if driver := os.Getenv("TASKSHARE_DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dir := os.Getenv("TASKSHARE_DB_DIR"); dir != "" {
		c.Database.Dir = dir
	}
	if filename := os.Getenv("TASKSHARE_DB_FILENAME"); filename != "" {
		c.Database.Filename = filename
	}
	if dsn := os.Getenv("TASKSHARE_DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if timeout := os.Getenv("TASKSHARE_DB_QUERY_TIMEOUT"); timeout != "" {
		c.Database.QueryTimeout = ParseDurationWithFallback(timeout, c.Database.QueryTimeout)
	}
	if timeout := os.Getenv("TASKSHARE_DB_WRITE_TIMEOUT"); timeout != "" {
		c.Database.WriteTimeout = ParseDurationWithFallback(timeout, c.Database.WriteTimeout)
	}
	if perms := os.Getenv("TASKSHARE_DB_DIR_PERMISSIONS"); perms != "" {
		c.Database.DirPermissions = ParseUint32WithFallback(perms, 8, c.Database.DirPermissions)
	}

	// Validation configuration
	if maxLen := os.Getenv("TASKSHARE_VALIDATION_TITLE_MAX"); maxLen != "" {
		c.Validation.TitleMaxLength = ParseIntWithFallback(maxLen, c.Validation.TitleMaxLength)
	}
	if maxLen := os.Getenv("TASKSHARE_VALIDATION_DESCRIPTION_MAX"); maxLen != "" {
		c.Validation.DescriptionMaxLength = ParseIntWithFallback(maxLen, c.Validation.DescriptionMaxLength)
	}

	// Reminders configuration
	if enabled := os.Getenv("TASKSHARE_REMINDERS_ENABLED"); enabled != "" {
		c.Reminders.Enabled = ParseBoolWithFallback(enabled, c.Reminders.Enabled)
	}
	if tz := os.Getenv("TASKSHARE_REMINDERS_TIMEZONE"); tz != "" {
		c.Reminders.Timezone = tz
	}

	// Display configuration
	if format := os.Getenv("TASKSHARE_DISPLAY_DATE_FORMAT"); format != "" {
		c.Display.DateFormat = format
	}
	if format := os.Getenv("TASKSHARE_LIST_DEFAULT_FORMAT"); format != "" {
		c.Display.ListDefaultFormat = format
	}
	if format := os.Getenv("TASKSHARE_EXPORT_DEFAULT_FORMAT"); format != "" {
		c.Display.ExportDefaultFormat = format
	}

	// Server configuration
	if addr := os.Getenv("TASKSHARE_SERVER_ADDR"); addr != "" {
		c.Server.Addr = addr
	}
	if baseURL := os.Getenv("TASKSHARE_SERVER_BASE_URL"); baseURL != "" {
		c.Server.BaseURL = baseURL
	}
	if secure := os.Getenv("TASKSHARE_SERVER_COOKIE_SECURE"); secure != "" {
		c.Server.CookieSecure = ParseBoolWithFallback(secure, c.Server.CookieSecure)
	}
	if ttl := os.Getenv("TASKSHARE_SERVER_SESSION_TTL"); ttl != "" {
		c.Server.SessionTTL = ParseDurationWithFallback(ttl, c.Server.SessionTTL)
	}

	// Auth configuration
	if provider := os.Getenv("TASKSHARE_AUTH_PROVIDER"); provider != "" {
		c.Auth.Provider = provider
	}
	if id := os.Getenv("TASKSHARE_GOOGLE_CLIENT_ID"); id != "" {
		c.Auth.GoogleClientID = id
	}
	if secret := os.Getenv("TASKSHARE_GOOGLE_CLIENT_SECRET"); secret != "" {
		c.Auth.GoogleClientSecret = secret
	}
	if uid := os.Getenv("TASKSHARE_AUTH_UID"); uid != "" {
		c.Auth.Static.UID = uid
	}
	if email := os.Getenv("TASKSHARE_AUTH_EMAIL"); email != "" {
		c.Auth.Static.Email = email
	}
	if name := os.Getenv("TASKSHARE_AUTH_NAME"); name != "" {
		c.Auth.Static.DisplayName = name
	}

	// Logging configuration
	if level := os.Getenv("TASKSHARE_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if format := os.Getenv("TASKSHARE_LOG_FORMAT"); format != "" {
		c.Logging.Format = format
	}

	// Application configuration
	if timeout := os.Getenv("TASKSHARE_APP_TIMEOUT"); timeout != "" {
		c.Application.Timeout = ParseDurationWithFallback(timeout, c.Application.Timeout)
	}
	if verbose := os.Getenv("TASKSHARE_APP_VERBOSE"); verbose != "" {
		c.Application.Verbose = ParseBoolWithFallback(verbose, c.Application.Verbose)
	}

	return nil
}

// Validate validates the configuration and returns any errors
func (c *Config) Validate() error {
	// Validate database configuration
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Dir == "" && c.Database.Filename != ":memory:" {
			return &ConfigError{Field: "database.dir", Message: "database directory cannot be empty"}
		}
		if c.Database.Filename == "" {
			return &ConfigError{Field: "database.filename", Message: "database filename cannot be empty"}
		}
	case DriverPostgres:
		if c.Database.DSN == "" {
			return &ConfigError{Field: "database.dsn", Message: "postgres driver requires a dsn"}
		}
	default:
		return &ConfigError{Field: "database.driver", Message: "driver must be sqlite or postgres"}
	}
	if c.Database.QueryTimeout <= 0 {
		return &ConfigError{Field: "database.query_timeout", Message: "query timeout must be positive"}
	}
	if c.Database.WriteTimeout <= 0 {
		return &ConfigError{Field: "database.write_timeout", Message: "write timeout must be positive"}
	}

	// Validate validation configuration
	if c.Validation.TitleMaxLength < 1 {
		return &ConfigError{Field: "validation.title_max_length", Message: "title maximum length must be at least 1"}
	}
	if c.Validation.DescriptionMaxLength < 0 {
		return &ConfigError{Field: "validation.description_max_length", Message: "description maximum length cannot be negative"}
	}

	// Validate reminders configuration
	if _, err := c.Location(); err != nil {
		return &ConfigError{Field: "reminders.timezone", Message: "unknown time zone " + strconv.Quote(c.Reminders.Timezone)}
	}

	// Validate display configuration
	if c.Display.DateFormat == "" {
		return &ConfigError{Field: "display.date_format", Message: "date format cannot be empty"}
	}

	// Validate server configuration
	if c.Server.SessionTTL <= 0 {
		return &ConfigError{Field: "server.session_ttl", Message: "session ttl must be positive"}
	}

	// Validate auth configuration
	switch c.Auth.Provider {
	case ProviderStatic:
	case ProviderGoogle:
		if c.Auth.GoogleClientID == "" || c.Auth.GoogleClientSecret == "" {
			return &ConfigError{Field: "auth.google_client_id", Message: "google provider requires client id and secret"}
		}
	default:
		return &ConfigError{Field: "auth.provider", Message: "provider must be google or static"}
	}

	// Validate logging configuration
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		return &ConfigError{Field: "logging.format", Message: "log format must be text or json"}
	}

	// Validate application configuration
	if c.Application.Timeout <= 0 {
		return &ConfigError{Field: "application.timeout", Message: "application timeout must be positive"}
	}

	return nil
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
