package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionResult validation errors
var (
	// ErrResultIDEmpty is returned when a session result ID is empty or nil.
	ErrResultIDEmpty = errors.New("session result ID cannot be empty")

	// ErrResultUserIDEmpty is returned when a session result user ID is empty or nil.
	ErrResultUserIDEmpty = errors.New("session result user ID cannot be empty")

	// ErrResultKindEmpty is returned when a session result kind is empty.
	ErrResultKindEmpty = errors.New("session result kind cannot be empty")

	// ErrResultNegativeCount is returned when any result counter is negative.
	ErrResultNegativeCount = errors.New("session result counters cannot be negative")
)

// SessionResult is the immutable record produced once when a review session
// or quiz completes. The multi-select breakdown fields are zero for session
// kinds that do not award partial credit.
type SessionResult struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`
	Kind   string    `json:"kind"` // "learning", "review", or a quiz test type

	TotalCount     int `json:"total_count"`
	CorrectCount   int `json:"correct_count"`
	IncorrectCount int `json:"incorrect_count"`

	// Multi-select partial-credit breakdown
	FullCreditCount    int     `json:"full_credit_count"`
	PartialCreditCount int     `json:"partial_credit_count"`
	ZeroCreditCount    int     `json:"zero_credit_count"`
	Score              float64 `json:"score"` // Accumulated fractional score

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	CreatedAt time.Time     `json:"created_at"`
}

// Accuracy returns correct/total as a fraction in [0,1], and 0 for an empty
// session.
func (r *SessionResult) Accuracy() float64 {
	if r.TotalCount == 0 {
		return 0
	}
	return float64(r.CorrectCount) / float64(r.TotalCount)
}

// Validate checks if the SessionResult has valid data.
func (r *SessionResult) Validate() error {
	if r.ID == uuid.Nil {
		return ErrResultIDEmpty
	}

	if r.UserID == uuid.Nil {
		return ErrResultUserIDEmpty
	}

	if r.Kind == "" {
		return ErrResultKindEmpty
	}

	if r.TotalCount < 0 || r.CorrectCount < 0 || r.IncorrectCount < 0 ||
		r.FullCreditCount < 0 || r.PartialCreditCount < 0 || r.ZeroCreditCount < 0 {
		return ErrResultNegativeCount
	}

	return nil
}

// UnlockedAchievement identifies an achievement unlocked by a completed
// session. The catalog of achievements lives outside the core; the engine
// only carries the identifiers back to the caller.
type UnlockedAchievement struct {
	Code       string    `json:"code"`
	Title      string    `json:"title"`
	UnlockedAt time.Time `json:"unlocked_at"`
}
