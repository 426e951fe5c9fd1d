// Package cli provides common CLI initialization utilities.
// This package consolidates the startup sequence of cmd/spendbook: .env
// loading, configuration, the log file and the database connection.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"spendbook/internal/config"
	applog "spendbook/internal/log"
	"spendbook/internal/storage"
)

// LoadEnvFile loads the .env file from the working directory.
// A missing file is not an error: the environment may already be set.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger opens the log file named by cfg and installs a text logger
// writing to it (and to stderr when requested) as the slog default.
// The returned func closes the log file.
func SetupLogger(cfg *config.Config) (*applog.Logger, func() error, error) {
	file, err := applog.OpenFile(cfg.LogDir, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}

	writers := []io.Writer{file}
	if cfg.LogToStderr {
		writers = append(writers, os.Stderr)
	}

	level, err := applog.ParseLevel(cfg.LogLevel)
	if err != nil {
		file.Close()
		return nil, nil, err
	}

	logger := applog.New(applog.Config{
		Level:     level,
		Component: applog.ComponentApp,
		Handler:   applog.NewTextHandler(level, writers...),
	})
	applog.SetDefault(logger)
	return logger, file.Close, nil
}

// LoadAndValidateConfig loads configuration and validates it.
// Validation problems are printed to stderr since the log file location is
// itself part of the configuration.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, err
	}
	return cfg, nil
}

// InitStorage connects to PostgreSQL and applies pending migrations.
func InitStorage(ctx context.Context, logger *applog.Logger, cfg *config.Config) (*storage.Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
	defer cancel()

	repo, err := storage.Open(ctx, cfg.DSN())
	if err != nil {
		logger.Error("Failed to initialize PostgreSQL repository",
			applog.FieldError, err,
			applog.FieldDBHost, cfg.DBHost,
			applog.FieldDBName, cfg.DBName)
		return nil, err
	}

	logger.Info("Connected to database",
		applog.FieldOperation, applog.OpStartup,
		"target", cfg.Redacted())
	return repo, nil
}
