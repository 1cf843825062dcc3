package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// wordColumns is the scan order shared by every word query.
const wordColumns = `id, user_id, term, translation, category,
		ease_factor, interval_days, repetitions, next_review_at,
		times_studied, times_correct, last_studied_at, mastery, is_favorite,
		created_at, updated_at`

// PostgresWordStore implements the store.WordStore interface using a
// PostgreSQL database as the storage backend.
type PostgresWordStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresWordStore creates a new PostgreSQL implementation of the
// WordStore interface. The caller owns the database connection or
// transaction. If logger is nil, a default logger is used.
func NewPostgresWordStore(db store.DBTX, logger *slog.Logger) *PostgresWordStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresWordStore{
		db:     db,
		logger: logger.With(slog.String("component", "word_store")),
	}
}

// Ensure PostgresWordStore implements store.WordStore interface
var _ store.WordStore = (*PostgresWordStore)(nil)

// Create implements store.WordStore.Create.
// Returns validation errors from the domain Word if the data is invalid, and
// store.ErrInvalidEntity if the owning user does not exist.
func (s *PostgresWordStore) Create(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during create",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	query := `
		INSERT INTO words (` + wordColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		word.ID,
		word.UserID,
		word.Term,
		word.Translation,
		word.Category,
		word.EaseFactor,
		word.IntervalDays,
		word.Repetitions,
		word.NextReviewAt,
		word.TimesStudied,
		word.TimesCorrect,
		word.LastStudiedAt,
		word.Mastery,
		word.IsFavorite,
		word.CreatedAt,
		word.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during word creation",
				slog.String("error", err.Error()),
				slog.String("word_id", word.ID.String()),
				slog.String("user_id", word.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, word.UserID)
		}

		log.Error("failed to create word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	log.Debug("word created",
		slog.String("word_id", word.ID.String()),
		slog.String("user_id", word.UserID.String()))
	return nil
}

// GetByID implements store.WordStore.GetByID.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + wordColumns + ` FROM words WHERE id = $1`

	word, err := scanWord(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("word not found", slog.String("word_id", id.String()))
			return nil, store.ErrWordNotFound
		}
		log.Error("failed to get word by ID",
			slog.String("error", err.Error()),
			slog.String("word_id", id.String()))
		return nil, MapError(err)
	}

	return word, nil
}

// List implements store.WordStore.List.
func (s *PostgresWordStore) List(ctx context.Context, userID uuid.UUID, category string, limit, offset int) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1
		  AND ($2 = '' OR category = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := s.db.QueryContext(ctx, query, userID, category, limit, offset)
	if err != nil {
		log.Error("failed to list words",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return collectWords(rows, log)
}

// FetchDue implements store.WordStore.FetchDue.
// Words that have never been scheduled (next_review_at IS NULL) count as due.
func (s *PostgresWordStore) FetchDue(ctx context.Context, userID uuid.UUID, before time.Time, category string, limit int) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1
		  AND (next_review_at IS NULL OR next_review_at <= $2)
		  AND ($3 = '' OR category = $3)
		ORDER BY next_review_at ASC NULLS FIRST
		LIMIT $4
	`

	rows, err := s.db.QueryContext(ctx, query, userID, before, category, limit)
	if err != nil {
		log.Error("failed to fetch due words",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return collectWords(rows, log)
}

// FetchForLearning implements store.WordStore.FetchForLearning: the union of
// words studied fewer than minStudyCount times and words at or above the
// threshold whose mastery is still new or learning, ordered oldest-studied
// first with never-studied words leading.
func (s *PostgresWordStore) FetchForLearning(ctx context.Context, userID uuid.UUID, minStudyCount, limit int, category string) ([]*domain.Word, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + wordColumns + `
		FROM words
		WHERE user_id = $1
		  AND (times_studied < $2 OR mastery IN ('new', 'learning'))
		  AND ($3 = '' OR category = $3)
		ORDER BY last_studied_at ASC NULLS FIRST
		LIMIT $4
	`

	rows, err := s.db.QueryContext(ctx, query, userID, minStudyCount, category, limit)
	if err != nil {
		log.Error("failed to fetch learning words",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return collectWords(rows, log)
}

// Update implements store.WordStore.Update.
// Returns store.ErrWordNotFound if the word does not exist.
func (s *PostgresWordStore) Update(ctx context.Context, word *domain.Word) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := word.Validate(); err != nil {
		log.Warn("word validation failed during update",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return err
	}

	query := `
		UPDATE words
		SET term = $1, translation = $2, category = $3,
		    ease_factor = $4, interval_days = $5, repetitions = $6,
		    next_review_at = $7, times_studied = $8, times_correct = $9,
		    last_studied_at = $10, mastery = $11, is_favorite = $12,
		    updated_at = $13
		WHERE id = $14
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		word.Term,
		word.Translation,
		word.Category,
		word.EaseFactor,
		word.IntervalDays,
		word.Repetitions,
		word.NextReviewAt,
		word.TimesStudied,
		word.TimesCorrect,
		word.LastStudiedAt,
		word.Mastery,
		word.IsFavorite,
		word.UpdatedAt,
		word.ID,
	)
	if err != nil {
		log.Error("failed to update word",
			slog.String("error", err.Error()),
			slog.String("word_id", word.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "word"); err != nil {
		log.Debug("word not found for update",
			slog.String("word_id", word.ID.String()))
		return store.ErrWordNotFound
	}

	return nil
}

// WithTx implements store.WordStore.WithTx.
func (s *PostgresWordStore) WithTx(tx *sql.Tx) store.WordStore {
	return &PostgresWordStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanWord.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanWord(row rowScanner) (*domain.Word, error) {
	var word domain.Word
	var mastery string

	err := row.Scan(
		&word.ID,
		&word.UserID,
		&word.Term,
		&word.Translation,
		&word.Category,
		&word.EaseFactor,
		&word.IntervalDays,
		&word.Repetitions,
		&word.NextReviewAt,
		&word.TimesStudied,
		&word.TimesCorrect,
		&word.LastStudiedAt,
		&mastery,
		&word.IsFavorite,
		&word.CreatedAt,
		&word.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	word.Mastery = domain.MasteryLevel(mastery)
	return &word, nil
}

func collectWords(rows *sql.Rows, log *slog.Logger) ([]*domain.Word, error) {
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	words := []*domain.Word{}
	for rows.Next() {
		word, err := scanWord(rows)
		if err != nil {
			log.Error("failed to scan word row", slog.String("error", err.Error()))
			return nil, err
		}
		words = append(words, word)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	return words, nil
}
