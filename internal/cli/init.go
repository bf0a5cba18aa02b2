// Package cli consolidates the initialization steps shared by
// cmd/hkmcash and cmd/hkmcash-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/hikmagitz/hkmcash-sub000/internal/config"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

// Bootstrap loads the .env file, sets up the default logger, and loads
// and validates configuration. Exits the process on invalid config:
// there is nothing sensible to do with a broken configuration.
func Bootstrap() (*config.Config, *applog.Logger) {
	// Ignore errors: the .env file is a local development convenience.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg, logger
}
