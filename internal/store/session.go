package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
)

// SessionResultStore is the sink for immutable completed-session records.
type SessionResultStore interface {
	// Record persists a session result. Results are append-only; there is
	// no update path.
	Record(ctx context.Context, result *domain.SessionResult) error

	// ListRecent returns the user's most recent session results, newest
	// first.
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SessionResult, error)

	// WithTx returns a SessionResultStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionResultStore
}
