package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresSessionResultStore implements the store.SessionResultStore
// interface using a PostgreSQL database as the storage backend. Results are
// append-only.
type PostgresSessionResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionResultStore creates a new PostgreSQL implementation of
// the SessionResultStore interface. If logger is nil, a default logger is
// used.
func NewPostgresSessionResultStore(db store.DBTX, logger *slog.Logger) *PostgresSessionResultStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_result_store")),
	}
}

// Ensure PostgresSessionResultStore implements store.SessionResultStore interface
var _ store.SessionResultStore = (*PostgresSessionResultStore)(nil)

// Record implements store.SessionResultStore.Record.
// Returns store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresSessionResultStore) Record(ctx context.Context, result *domain.SessionResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		log.Warn("session result validation failed",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return err
	}

	query := `
		INSERT INTO session_results
			(id, user_id, kind, total_count, correct_count, incorrect_count,
			 full_credit_count, partial_credit_count, zero_credit_count, score,
			 started_at, duration_ms, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		result.ID,
		result.UserID,
		result.Kind,
		result.TotalCount,
		result.CorrectCount,
		result.IncorrectCount,
		result.FullCreditCount,
		result.PartialCreditCount,
		result.ZeroCreditCount,
		result.Score,
		result.StartedAt,
		result.Duration.Milliseconds(),
		result.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, result.UserID)
		}
		log.Error("failed to record session result",
			slog.String("error", err.Error()),
			slog.String("result_id", result.ID.String()))
		return MapError(err)
	}

	log.Debug("session result recorded",
		slog.String("result_id", result.ID.String()),
		slog.String("kind", result.Kind))
	return nil
}

// ListRecent implements store.SessionResultStore.ListRecent.
func (s *PostgresSessionResultStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*domain.SessionResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, user_id, kind, total_count, correct_count, incorrect_count,
		       full_credit_count, partial_credit_count, zero_credit_count, score,
		       started_at, duration_ms, created_at
		FROM session_results
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		log.Error("failed to list session results",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	results := []*domain.SessionResult{}
	for rows.Next() {
		var result domain.SessionResult
		var durationMs int64

		err := rows.Scan(
			&result.ID,
			&result.UserID,
			&result.Kind,
			&result.TotalCount,
			&result.CorrectCount,
			&result.IncorrectCount,
			&result.FullCreditCount,
			&result.PartialCreditCount,
			&result.ZeroCreditCount,
			&result.Score,
			&result.StartedAt,
			&durationMs,
			&result.CreatedAt,
		)
		if err != nil {
			log.Error("failed to scan session result row",
				slog.String("error", err.Error()))
			return nil, err
		}

		result.Duration = time.Duration(durationMs) * time.Millisecond
		results = append(results, &result)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return results, nil
}

// WithTx implements store.SessionResultStore.WithTx.
func (s *PostgresSessionResultStore) WithTx(tx *sql.Tx) store.SessionResultStore {
	return &PostgresSessionResultStore{
		db:     tx,
		logger: s.logger,
	}
}
