package config

import (
	"context"
	"fmt"
	"os"

	"taskshare/internal/repository"
	"taskshare/internal/repository/postgres"
	"taskshare/internal/repository/sqlite"
)

// CreateRepository opens the task store selected by the configuration
func CreateRepository(ctx context.Context, config *Config) (repository.Repository, error) {
	switch config.Database.Driver {
	case DriverPostgres:
		store, err := postgres.Open(ctx, config.Database.DSN, postgres.Options{
			QueryTimeout: config.GetQueryTimeout(),
			WriteTimeout: config.GetWriteTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres store: %w", err)
		}
		return store, nil

	case DriverSQLite, "":
		dbPath := config.GetDatabasePath()
		if dbPath != ":memory:" {
			if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}

		repo, err := sqlite.NewWithOptions(dbPath, sqlite.Options{
			QueryTimeout: config.GetQueryTimeout(),
			WriteTimeout: config.GetWriteTimeout(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		return repo, nil
	}

	return nil, &ConfigError{Field: "database.driver", Message: "unsupported driver " + config.Database.Driver}
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (repository.Repository, error) {
	repo, err := sqlite.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	return repo, nil
}
