// Package review implements the swipe-driven review session: a dynamically
// selected word queue walked card by card, with an undoable snapshot history,
// SM-2 scheduling on every advance, and aggregate updates on completion.
package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
)

// Mode selects how the session queue is built.
type Mode string

// Session modes.
const (
	// ModeLearning studies words that are new or still being learned.
	ModeLearning Mode = "learning"

	// ModeReview studies words whose scheduled review is due.
	ModeReview Mode = "review"
)

// IsValid reports whether the mode is one of the defined session modes.
func (m Mode) IsValid() bool {
	return m == ModeLearning || m == ModeReview
}

// Direction is a swipe gesture on the current card.
type Direction string

// Swipe directions and their meanings.
const (
	DirectionLeft  Direction = "left"  // Failed recall (quality 0)
	DirectionRight Direction = "right" // Good recall (quality 4)
	DirectionDown  Direction = "down"  // Easy recall (quality 5)
	DirectionUp    Direction = "up"    // Favorite toggle, does not advance
)

// IsValid reports whether the direction is one of the defined gestures.
func (d Direction) IsValid() bool {
	switch d {
	case DirectionLeft, DirectionRight, DirectionDown, DirectionUp:
		return true
	default:
		return false
	}
}

// State is the lifecycle state of a session.
type State string

// Session lifecycle states.
const (
	StateLoading   State = "loading"
	StateActive    State = "active"
	StateCompleted State = "completed"
)

// Common error types for review sessions.
var (
	// ErrSessionCompleted is returned when an advancing event arrives after
	// the session has finished.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrInvalidDirection is returned for an unknown swipe direction.
	ErrInvalidDirection = errors.New("invalid swipe direction")

	// ErrInvalidMode is returned for an unknown session mode.
	ErrInvalidMode = errors.New("invalid session mode")
)

// Stats are the running counters of a session.
type Stats struct {
	Known   int `json:"known"`
	Unknown int `json:"unknown"`
	Total   int `json:"total"`
}

// Accuracy returns known/total as a fraction in [0,1], and 0 for an empty
// session.
func (s Stats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Known) / float64(s.Total)
}

// Effects describes what a single event caused beyond the state change, for
// the caller to surface (a celebration, a goal banner, unlocked
// achievements).
type Effects struct {
	JustMastered bool                         `json:"just_mastered"`
	GoalReached  bool                         `json:"goal_reached"`
	Completed    bool                         `json:"completed"`
	Achievements []domain.UnlockedAchievement `json:"achievements,omitempty"`
}

// SessionContext is the completed-session information handed to the
// achievement evaluator.
type SessionContext struct {
	Mode     Mode
	Result   *domain.SessionResult
	Progress *domain.DailyProgress
}

// AchievementEvaluator checks a user's statistics against the achievement
// catalog after a completed session. The catalog itself lives outside the
// core.
type AchievementEvaluator interface {
	Evaluate(ctx context.Context, stats *domain.UserStats, sctx SessionContext) []domain.UnlockedAchievement
}

// snapshot captures a word's full learning state before a mutating advance,
// as plain values so undo never restores through aliased references.
type snapshot struct {
	wordID        uuid.UUID
	direction     Direction
	easeFactor    float64
	intervalDays  int
	repetitions   int
	nextReviewAt  *time.Time
	timesStudied  int
	timesCorrect  int
	lastStudiedAt *time.Time
	mastery       domain.MasteryLevel
}

func snapshotOf(word *domain.Word, direction Direction) snapshot {
	s := snapshot{
		wordID:       word.ID,
		direction:    direction,
		easeFactor:   word.EaseFactor,
		intervalDays: word.IntervalDays,
		repetitions:  word.Repetitions,
		timesStudied: word.TimesStudied,
		timesCorrect: word.TimesCorrect,
		mastery:      word.Mastery,
	}
	if word.NextReviewAt != nil {
		t := *word.NextReviewAt
		s.nextReviewAt = &t
	}
	if word.LastStudiedAt != nil {
		t := *word.LastStudiedAt
		s.lastStudiedAt = &t
	}
	return s
}

// restore writes the snapshot's learning state back onto the word.
func (s snapshot) restore(word *domain.Word) error {
	if word.ID != s.wordID {
		return fmt.Errorf("snapshot for word %s does not match word %s", s.wordID, word.ID)
	}
	word.EaseFactor = s.easeFactor
	word.IntervalDays = s.intervalDays
	word.Repetitions = s.repetitions
	word.TimesStudied = s.timesStudied
	word.TimesCorrect = s.timesCorrect
	word.Mastery = s.mastery
	word.NextReviewAt = nil
	if s.nextReviewAt != nil {
		t := *s.nextReviewAt
		word.NextReviewAt = &t
	}
	word.LastStudiedAt = nil
	if s.lastStudiedAt != nil {
		t := *s.lastStudiedAt
		word.LastStudiedAt = &t
	}
	return nil
}
