package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config     *Config
	configPath string
	explicit   bool
}

// NewLoader creates a loader that reads the default config file if it exists
func NewLoader() *Loader {
	return &Loader{
		config:     NewConfig(),
		configPath: DefaultConfigPath(),
	}
}

// NewLoaderWithFile creates a loader for an explicit config file, which must exist
func NewLoaderWithFile(path string) *Loader {
	return &Loader{
		config:     NewConfig(),
		configPath: path,
		explicit:   true,
	}
}

// ConfigPath returns the config file the loader reads
func (l *Loader) ConfigPath() string {
	return l.configPath
}

// Load loads configuration using the cascading strategy:
// 1. Start with defaults
// 2. Override with the YAML config file
// 3. Override with environment variables
// 4. Override with command line flags (see LoadWithOverrides)
func (l *Loader) Load() (*Config, error) {
	if err := l.loadFile(); err != nil {
		return nil, err
	}

	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

func (l *Loader) loadFile() error {
	if l.configPath == "" {
		return nil
	}
	if _, err := os.Stat(l.configPath); err != nil {
		if os.IsNotExist(err) && !l.explicit {
			return nil
		}
		return fmt.Errorf("config file %s: %w", l.configPath, err)
	}

	v := viper.New()
	v.SetConfigFile(l.configPath)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", l.configPath, err)
	}

	if err := v.Unmarshal(l.config); err != nil {
		return fmt.Errorf("failed to decode config file %s: %w", l.configPath, err)
	}
	return nil
}

// LoadWithOverrides loads configuration and applies command line overrides
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		config.ApplyOverrides(overrides)
	}

	// Re-validate after applying overrides
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDriver   *string
	DBDir      *string
	DBFilename *string
	DBDSN      *string

	// Static identity overrides
	UID         *string
	Email       *string
	DisplayName *string

	// Server overrides
	Addr *string

	// Reminder overrides
	Timezone *string

	// Logging overrides
	LogLevel *string

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// ApplyOverrides applies command line overrides to the configuration
func (c *Config) ApplyOverrides(overrides *ConfigOverrides) {
	if overrides == nil {
		return
	}
	if overrides.DBDriver != nil {
		c.Database.Driver = *overrides.DBDriver
	}
	if overrides.DBDir != nil {
		c.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		c.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBDSN != nil {
		c.Database.DSN = *overrides.DBDSN
	}

	if overrides.UID != nil {
		c.Auth.Static.UID = *overrides.UID
	}
	if overrides.Email != nil {
		c.Auth.Static.Email = *overrides.Email
	}
	if overrides.DisplayName != nil {
		c.Auth.Static.DisplayName = *overrides.DisplayName
	}

	if overrides.Addr != nil {
		c.Server.Addr = *overrides.Addr
	}
	if overrides.Timezone != nil {
		c.Reminders.Timezone = *overrides.Timezone
	}
	if overrides.LogLevel != nil {
		c.Logging.Level = *overrides.LogLevel
	}

	if overrides.Timeout != nil {
		c.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		c.Application.Verbose = *overrides.Verbose
	}
}

// Redacted returns a copy of the configuration safe to print
func (c *Config) Redacted() *Config {
	out := *c
	if out.Auth.GoogleClientSecret != "" {
		out.Auth.GoogleClientSecret = "********"
	}
	if out.Database.DSN != "" {
		out.Database.DSN = "********"
	}
	return &out
}

// ToYAML renders the configuration as a YAML document
func (c *Config) ToYAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes the configuration to path, creating parent directories.
// An existing file is left untouched unless force is set.
func WriteFile(path string, cfg *Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file %s already exists", path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := cfg.ToYAML()
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	header := []byte("# taskshare configuration\n")
	return os.WriteFile(path, append(header, data...), 0600)
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}
