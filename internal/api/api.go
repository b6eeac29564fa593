// Package api wires the services, identity provider and sessions into the
// BusinessAPI used by every outer surface.
package api

import (
	"fmt"
	"log/slog"

	"taskshare/internal/auth"
	"taskshare/internal/config"
	"taskshare/internal/repository"
	"taskshare/internal/services"
	"taskshare/internal/validation"
)

// Options configures New. Zero values select the configured defaults.
type Options struct {
	Config   *config.Config
	Logger   *slog.Logger
	Provider auth.Provider
	Notifier services.Notifier
}

// New builds a BusinessAPI on top of repo
func New(repo repository.Repository, opts Options) (BusinessAPI, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	location, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("invalid reminder time zone: %w", err)
	}

	provider := opts.Provider
	if provider == nil {
		provider, err = auth.NewProvider(cfg)
		if err != nil {
			return nil, err
		}
	}

	notifier := opts.Notifier
	switch {
	case !cfg.Reminders.Enabled:
		notifier = services.NopNotifier{}
	case notifier == nil:
		notifier = services.NewLogNotifier(logger)
	}

	container := services.NewServiceContainer(repo, validation.NewTaskValidatorWithConfig(cfg), location, notifier, logger)

	sessions := auth.NewSessionManager(provider, cfg.Server.SessionTTL, logger)
	sessions.OnAuthStateChange(container.UserService.HandleAuthStateChange)

	return NewBusinessAPI(container, sessions, logger), nil
}
