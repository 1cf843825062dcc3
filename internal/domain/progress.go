package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Progress-specific validation errors
var (
	// ErrProgressIDEmpty is returned when a daily progress ID is empty or nil.
	ErrProgressIDEmpty = errors.New("daily progress ID cannot be empty")

	// ErrProgressUserIDEmpty is returned when a daily progress user ID is empty or nil.
	ErrProgressUserIDEmpty = errors.New("daily progress user ID cannot be empty")

	// ErrStatsUserIDEmpty is returned when a user stats user ID is empty or nil.
	ErrStatsUserIDEmpty = errors.New("user stats user ID cannot be empty")

	// ErrInvalidDailyGoal is returned when the daily goal is not positive.
	ErrInvalidDailyGoal = errors.New("daily goal must be at least 1")
)

// DefaultDailyGoal is the number of words a user aims to study per day when
// no explicit goal has been configured.
const DefaultDailyGoal = 20

// DailyProgress aggregates study activity for a single user and calendar day.
type DailyProgress struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	Day             time.Time `json:"day"`              // Start of day, UTC
	LearnedCount    int       `json:"learned_count"`    // Words advanced in learning sessions
	ReviewedCount   int       `json:"reviewed_count"`   // Words advanced in review sessions
	AverageAccuracy float64   `json:"average_accuracy"` // Weighted session accuracy, 0-100
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// NewDailyProgress creates an empty progress aggregate for the calendar day
// containing the given time.
func NewDailyProgress(userID uuid.UUID, day time.Time) (*DailyProgress, error) {
	now := time.Now().UTC()
	progress := &DailyProgress{
		ID:        uuid.New(),
		UserID:    userID,
		Day:       StartOfDay(day),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := progress.Validate(); err != nil {
		return nil, err
	}

	return progress, nil
}

// Validate checks if the DailyProgress has valid data.
func (p *DailyProgress) Validate() error {
	if p.ID == uuid.Nil {
		return ErrProgressIDEmpty
	}

	if p.UserID == uuid.Nil {
		return ErrProgressUserIDEmpty
	}

	return nil
}

// Total returns the number of words studied on this day across both modes.
func (p *DailyProgress) Total() int {
	return p.LearnedCount + p.ReviewedCount
}

// GoalMet reports whether the day's study total has reached the given goal.
func (p *DailyProgress) GoalMet(goal int) bool {
	return p.Total() >= goal
}

// RecordSession folds a completed session into the aggregate. sessionTotal is
// the number of words advanced, sessionAccuracy is the session's accuracy as a
// fraction in [0,1], and learned selects which counter is incremented.
//
// The running accuracy is a weighted average over all words studied today:
// newAvg = (oldAvg*oldTotal + acc*100*sessionTotal) / (oldTotal+sessionTotal).
func (p *DailyProgress) RecordSession(learned bool, sessionTotal int, sessionAccuracy float64, now time.Time) {
	if sessionTotal <= 0 {
		return
	}

	oldTotal := p.Total()
	if oldTotal > 0 {
		p.AverageAccuracy = (p.AverageAccuracy*float64(oldTotal) +
			sessionAccuracy*100*float64(sessionTotal)) / float64(oldTotal+sessionTotal)
	} else {
		p.AverageAccuracy = sessionAccuracy * 100
	}

	if learned {
		p.LearnedCount += sessionTotal
	} else {
		p.ReviewedCount += sessionTotal
	}

	p.UpdatedAt = now.UTC()
}

// UserStats tracks long-running study statistics for a user: streaks, session
// totals, and the configured daily goal.
type UserStats struct {
	UserID        uuid.UUID  `json:"user_id"`
	CurrentStreak int        `json:"current_streak"` // Consecutive study days ending today
	LongestStreak int        `json:"longest_streak"`
	LastStudyDate *time.Time `json:"last_study_date,omitempty"` // Start of day, UTC
	TotalSessions int        `json:"total_sessions"`
	WordsMastered int        `json:"words_mastered"`
	DailyGoal     int        `json:"daily_goal"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewUserStats creates fresh statistics for a user with the given daily goal.
// A non-positive goal falls back to DefaultDailyGoal.
func NewUserStats(userID uuid.UUID, dailyGoal int) (*UserStats, error) {
	if dailyGoal <= 0 {
		dailyGoal = DefaultDailyGoal
	}

	now := time.Now().UTC()
	stats := &UserStats{
		UserID:    userID,
		DailyGoal: dailyGoal,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := stats.Validate(); err != nil {
		return nil, err
	}

	return stats, nil
}

// Validate checks if the UserStats has valid data.
func (s *UserStats) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrStatsUserIDEmpty
	}

	if s.DailyGoal < 1 {
		return ErrInvalidDailyGoal
	}

	return nil
}

// RecordStudyDay updates the streak counters for a study event at the given
// time. Studying again on the same calendar day leaves the streak unchanged;
// studying exactly one day after the last study extends it; any longer gap,
// or the very first study, starts a new streak of 1.
func (s *UserStats) RecordStudyDay(now time.Time) {
	today := StartOfDay(now)

	if s.LastStudyDate == nil {
		s.CurrentStreak = 1
	} else {
		switch daysBetween(StartOfDay(*s.LastStudyDate), today) {
		case 0:
			return
		case 1:
			s.CurrentStreak++
		default:
			s.CurrentStreak = 1
		}
	}

	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	s.LastStudyDate = &today
	s.UpdatedAt = now.UTC()
}

// StartOfDay truncates a time to midnight UTC of its calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole number of calendar days from a to b.
// Both inputs must already be truncated to start of day.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
