// Package main implements the entry point for the wordloop API server,
// which drives spaced-repetition study sessions over a user's vocabulary.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// run wires the application together and blocks until shutdown.
func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server)
	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	migrationsDir := os.Getenv("WORDLOOP_MIGRATIONS_DIR")
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	if err := runMigrations(app.db, migrationsDir, appLogger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return app.serve()
}
