package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/platform/logger"
	"github.com/wordloop/wordloop-api/internal/store"
)

// PostgresProgressStore implements the store.ProgressStore interface using a
// PostgreSQL database as the storage backend.
type PostgresProgressStore struct {
	db        store.DBTX
	dailyGoal int // Seeds new user stats; non-positive falls back to the domain default
	logger    *slog.Logger
}

// NewPostgresProgressStore creates a new PostgreSQL implementation of the
// ProgressStore interface. dailyGoal is the configured study goal seeded into
// user stats created by GetOrCreateUserStats. If logger is nil, a default
// logger is used.
func NewPostgresProgressStore(db store.DBTX, dailyGoal int, logger *slog.Logger) *PostgresProgressStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresProgressStore{
		db:        db,
		dailyGoal: dailyGoal,
		logger:    logger.With(slog.String("component", "progress_store")),
	}
}

// Ensure PostgresProgressStore implements store.ProgressStore interface
var _ store.ProgressStore = (*PostgresProgressStore)(nil)

// GetOrCreateDaily implements store.ProgressStore.GetOrCreateDaily. The
// insert races benignly with concurrent sessions: on a unique violation the
// existing row is fetched.
func (s *PostgresProgressStore) GetOrCreateDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyProgress, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	start := domain.StartOfDay(day)

	progress, err := s.getDaily(ctx, userID, start)
	if err == nil {
		return progress, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get daily progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	fresh, err := domain.NewDailyProgress(userID, start)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO daily_progress
			(id, user_id, day, learned_count, reviewed_count, average_accuracy, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		fresh.ID,
		fresh.UserID,
		fresh.Day,
		fresh.LearnedCount,
		fresh.ReviewedCount,
		fresh.AverageAccuracy,
		fresh.CreatedAt,
		fresh.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			// Lost the insert race; the row exists now.
			return s.getDailyMapped(ctx, log, userID, start)
		}
		log.Error("failed to create daily progress",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	log.Debug("daily progress created",
		slog.String("user_id", userID.String()),
		slog.Time("day", start))
	return fresh, nil
}

func (s *PostgresProgressStore) getDaily(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.DailyProgress, error) {
	query := `
		SELECT id, user_id, day, learned_count, reviewed_count, average_accuracy, created_at, updated_at
		FROM daily_progress
		WHERE user_id = $1 AND day = $2
	`

	var progress domain.DailyProgress
	err := s.db.QueryRowContext(ctx, query, userID, day).Scan(
		&progress.ID,
		&progress.UserID,
		&progress.Day,
		&progress.LearnedCount,
		&progress.ReviewedCount,
		&progress.AverageAccuracy,
		&progress.CreatedAt,
		&progress.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (s *PostgresProgressStore) getDailyMapped(ctx context.Context, log *slog.Logger, userID uuid.UUID, day time.Time) (*domain.DailyProgress, error) {
	progress, err := s.getDaily(ctx, userID, day)
	if err != nil {
		log.Error("failed to get daily progress after insert race",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	return progress, nil
}

// SaveDaily implements store.ProgressStore.SaveDaily.
// Returns store.ErrProgressNotFound if the aggregate does not exist.
func (s *PostgresProgressStore) SaveDaily(ctx context.Context, progress *domain.DailyProgress) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := progress.Validate(); err != nil {
		log.Warn("daily progress validation failed during save",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return err
	}

	query := `
		UPDATE daily_progress
		SET learned_count = $1, reviewed_count = $2, average_accuracy = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		progress.LearnedCount,
		progress.ReviewedCount,
		progress.AverageAccuracy,
		progress.UpdatedAt,
		progress.ID,
	)
	if err != nil {
		log.Error("failed to save daily progress",
			slog.String("error", err.Error()),
			slog.String("progress_id", progress.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "daily progress"); err != nil {
		return store.ErrProgressNotFound
	}
	return nil
}

// GetOrCreateUserStats implements store.ProgressStore.GetOrCreateUserStats.
func (s *PostgresProgressStore) GetOrCreateUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	stats, err := s.getUserStats(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to get user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	fresh, err := domain.NewUserStats(userID, s.dailyGoal)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO user_stats
			(user_id, current_streak, longest_streak, last_study_date,
			 total_sessions, words_mastered, daily_goal, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		fresh.UserID,
		fresh.CurrentStreak,
		fresh.LongestStreak,
		fresh.LastStudyDate,
		fresh.TotalSessions,
		fresh.WordsMastered,
		fresh.DailyGoal,
		fresh.CreatedAt,
		fresh.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			stats, err := s.getUserStats(ctx, userID)
			if err != nil {
				return nil, MapError(err)
			}
			return stats, nil
		}
		log.Error("failed to create user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	log.Debug("user stats created", slog.String("user_id", userID.String()))
	return fresh, nil
}

func (s *PostgresProgressStore) getUserStats(ctx context.Context, userID uuid.UUID) (*domain.UserStats, error) {
	query := `
		SELECT user_id, current_streak, longest_streak, last_study_date,
		       total_sessions, words_mastered, daily_goal, created_at, updated_at
		FROM user_stats
		WHERE user_id = $1
	`

	var stats domain.UserStats
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.CurrentStreak,
		&stats.LongestStreak,
		&stats.LastStudyDate,
		&stats.TotalSessions,
		&stats.WordsMastered,
		&stats.DailyGoal,
		&stats.CreatedAt,
		&stats.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// SaveUserStats implements store.ProgressStore.SaveUserStats.
// Returns store.ErrUserStatsNotFound if the record does not exist.
func (s *PostgresProgressStore) SaveUserStats(ctx context.Context, stats *domain.UserStats) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := stats.Validate(); err != nil {
		log.Warn("user stats validation failed during save",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return err
	}

	query := `
		UPDATE user_stats
		SET current_streak = $1, longest_streak = $2, last_study_date = $3,
		    total_sessions = $4, words_mastered = $5, daily_goal = $6, updated_at = $7
		WHERE user_id = $8
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		stats.CurrentStreak,
		stats.LongestStreak,
		stats.LastStudyDate,
		stats.TotalSessions,
		stats.WordsMastered,
		stats.DailyGoal,
		stats.UpdatedAt,
		stats.UserID,
	)
	if err != nil {
		log.Error("failed to save user stats",
			slog.String("error", err.Error()),
			slog.String("user_id", stats.UserID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "user stats"); err != nil {
		return store.ErrUserStatsNotFound
	}
	return nil
}

// WithTx implements store.ProgressStore.WithTx.
func (s *PostgresProgressStore) WithTx(tx *sql.Tx) store.ProgressStore {
	return &PostgresProgressStore{
		db:        tx,
		dailyGoal: s.dailyGoal,
		logger:    s.logger,
	}
}
