package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
)

// ProgressStore defines the interface for the daily-progress and user-stats
// aggregates a completing session mutates.
type ProgressStore interface {
	// GetOrCreateDaily returns the progress aggregate for the calendar day
	// containing the given time, creating an empty one if none exists.
	GetOrCreateDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyProgress, error)

	// SaveDaily persists a mutated daily progress aggregate.
	SaveDaily(ctx context.Context, progress *domain.DailyProgress) error

	// GetOrCreateUserStats returns the user's long-running statistics,
	// creating a fresh record with defaults if none exists.
	GetOrCreateUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error)

	// SaveUserStats persists mutated user statistics.
	SaveUserStats(ctx context.Context, stats *domain.UserStats) error

	// WithTx returns a ProgressStore bound to the given transaction.
	WithTx(tx *sql.Tx) ProgressStore
}
