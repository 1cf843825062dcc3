package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Word-specific validation errors
var (
	// ErrWordIDEmpty is returned when a word ID is empty or nil.
	ErrWordIDEmpty = errors.New("word ID cannot be empty")

	// ErrWordUserIDEmpty is returned when a word's user ID is empty or nil.
	ErrWordUserIDEmpty = errors.New("word user ID cannot be empty")

	// ErrWordTermEmpty is returned when a word's term is empty.
	ErrWordTermEmpty = errors.New("word term cannot be empty")

	// ErrWordTranslationEmpty is returned when a word's translation is empty.
	ErrWordTranslationEmpty = errors.New("word translation cannot be empty")

	// ErrWordEaseFactorTooLow is returned when the ease factor is below the SM-2 floor.
	ErrWordEaseFactorTooLow = errors.New("word ease factor cannot be below 1.3")

	// ErrWordIntervalTooLow is returned when the review interval is below one day.
	ErrWordIntervalTooLow = errors.New("word interval must be at least 1 day")

	// ErrWordNegativeCounter is returned when a study counter is negative.
	ErrWordNegativeCounter = errors.New("word study counters cannot be negative")
)

// DefaultEaseFactor is the SM-2 starting ease factor for a word that has
// never been reviewed.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the SM-2 floor below which the ease factor never drops.
const MinEaseFactor = 1.3

// Word is a vocabulary item together with its spaced-repetition learning
// state. Words are owned by the store layer; review and quiz sessions mutate
// the learning-state fields in place and hand the word back for persistence.
type Word struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	Category    string    `json:"category,omitempty"`

	// SM-2 scheduling state
	EaseFactor   float64    `json:"ease_factor"`   // Difficulty multiplier, floor 1.3
	IntervalDays int        `json:"interval_days"` // Days until the next review
	Repetitions  int        `json:"repetitions"`   // Consecutive successful reviews
	NextReviewAt *time.Time `json:"next_review_at,omitempty"`

	// Study history
	TimesStudied  int          `json:"times_studied"`
	TimesCorrect  int          `json:"times_correct"`
	LastStudiedAt *time.Time   `json:"last_studied_at,omitempty"`
	Mastery       MasteryLevel `json:"mastery"`
	IsFavorite    bool         `json:"is_favorite"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewWord creates a new Word for the given user with fresh learning state.
// Returns an error if validation fails.
func NewWord(userID uuid.UUID, term, translation, category string) (*Word, error) {
	now := time.Now().UTC()
	word := &Word{
		ID:           uuid.New(),
		UserID:       userID,
		Term:         term,
		Translation:  translation,
		Category:     category,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 1,
		Repetitions:  0,
		Mastery:      MasteryNew,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := word.Validate(); err != nil {
		return nil, err
	}

	return word, nil
}

// Validate checks if the Word has valid data.
// Returns an error if any field fails validation.
func (w *Word) Validate() error {
	if w.ID == uuid.Nil {
		return ErrWordIDEmpty
	}

	if w.UserID == uuid.Nil {
		return ErrWordUserIDEmpty
	}

	if w.Term == "" {
		return ErrWordTermEmpty
	}

	if w.Translation == "" {
		return ErrWordTranslationEmpty
	}

	if w.EaseFactor < MinEaseFactor {
		return ErrWordEaseFactorTooLow
	}

	if w.IntervalDays < 1 {
		return ErrWordIntervalTooLow
	}

	if w.TimesStudied < 0 || w.TimesCorrect < 0 || w.Repetitions < 0 {
		return ErrWordNegativeCounter
	}

	return nil
}

// Accuracy returns the running recall accuracy as a fraction in [0,1].
// A word that has never been studied has an accuracy of 0.
func (w *Word) Accuracy() float64 {
	if w.TimesStudied == 0 {
		return 0
	}
	return float64(w.TimesCorrect) / float64(w.TimesStudied)
}

// RecordStudy updates the study history after a single review event and
// recomputes the mastery level. The SM-2 scheduling fields are updated
// separately by the scheduler; this method only tracks history.
func (w *Word) RecordStudy(correct bool, now time.Time) {
	w.TimesStudied++
	if correct {
		w.TimesCorrect++
	}
	studied := now.UTC()
	w.LastStudiedAt = &studied
	w.Mastery = ClassifyMastery(w.TimesStudied, w.TimesCorrect)
	w.UpdatedAt = studied
}

// IsDue reports whether the word is due for review at the given time.
// Words that have never been scheduled are always due.
func (w *Word) IsDue(now time.Time) bool {
	if w.NextReviewAt == nil {
		return true
	}
	return !w.NextReviewAt.After(now)
}
