package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/wordloop/wordloop-api/internal/api"
	"github.com/wordloop/wordloop-api/internal/config"
	"github.com/wordloop/wordloop-api/internal/domain/srs"
	"github.com/wordloop/wordloop-api/internal/events"
	"github.com/wordloop/wordloop-api/internal/platform/clock"
	"github.com/wordloop/wordloop-api/internal/platform/postgres"
	"github.com/wordloop/wordloop-api/internal/service/auth"
	"github.com/wordloop/wordloop-api/internal/store"
)

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore     store.UserStore
	wordStore     store.WordStore
	progressStore store.ProgressStore
	resultStore   store.SessionResultStore

	tokenService auth.TokenService
	passwords    auth.PasswordHasher
	scheduler    srs.Service
	emitter      events.Emitter
	clock        clock.Clock
	registry     *api.SessionRegistry
}

// newApplication builds every component from configuration. Components are
// constructed bottom-up: database, stores, services, then the shared
// registry the handlers hang sessions on.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := openDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create token service: %w", err)
	}

	emitter := events.NewInMemoryEmitter(logger)
	emitter.RegisterHandler(&eventLogger{logger: logger})

	return &application{
		config:        cfg,
		logger:        logger,
		db:            db,
		userStore:     postgres.NewPostgresUserStore(db, logger),
		wordStore:     postgres.NewPostgresWordStore(db, logger),
		progressStore: postgres.NewPostgresProgressStore(db, cfg.Study.DailyGoal, logger),
		resultStore:   postgres.NewPostgresSessionResultStore(db, logger),
		tokenService:  tokenService,
		passwords:     auth.NewBcryptHasher(0),
		scheduler:     srs.NewDefaultService(),
		emitter:       emitter,
		clock:         clock.New(),
		registry:      api.NewSessionRegistry(),
	}, nil
}

// eventLogger surfaces session events in the server log.
type eventLogger struct {
	logger *slog.Logger
}

func (h *eventLogger) HandleEvent(ctx context.Context, event *events.SessionEvent) error {
	h.logger.Info("session event",
		"event_type", event.Type,
		"event_id", event.ID,
		"payload", string(event.Payload))
	return nil
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", "error", err)
		}
	}
}
