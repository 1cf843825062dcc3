// Package quiz implements the quiz engine: question generation per test
// type from a word pool, draft answers, partial-credit scoring, and a
// per-question countdown that auto-submits on expiry.
package quiz

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// TestType selects how questions are generated and scored.
type TestType string

// Quiz test types.
const (
	TypeMultipleChoice TestType = "multiple_choice"
	TypeFillInBlank    TestType = "fill_in_blank"
	TypeListening      TestType = "listening"
	TypeTrueFalse      TestType = "true_false"
	TypeMultiSelect    TestType = "multi_select"
)

// IsValid reports whether the test type is one of the defined types.
func (t TestType) IsValid() bool {
	switch t {
	case TypeMultipleChoice, TypeFillInBlank, TypeListening, TypeTrueFalse, TypeMultiSelect:
		return true
	default:
		return false
	}
}

// Answer strings for true/false questions.
const (
	AnswerTrue  = "true"
	AnswerFalse = "false"
)

// Common error types for quiz sessions.
var (
	// ErrQuizCompleted is returned when an event arrives after the quiz has
	// finished.
	ErrQuizCompleted = errors.New("quiz already completed")

	// ErrAlreadyAnswered is returned when the current question was already
	// resolved.
	ErrAlreadyAnswered = errors.New("question already answered")

	// ErrInvalidTestType is returned for an unknown test type.
	ErrInvalidTestType = errors.New("invalid test type")

	// ErrSelectionNotAllowed is returned when ToggleSelection is used on a
	// test type that takes a single answer.
	ErrSelectionNotAllowed = errors.New("test type does not take a selection")
)

// Question is a single generated quiz item. Options is empty for free-text
// recall; Correct holds one answer for single-answer types and the full
// correct set for multi-select. Statement carries the paired translation in
// true/false mode.
type Question struct {
	WordID    uuid.UUID `json:"word_id"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options,omitempty"`
	Correct   []string  `json:"-"`
	Statement string    `json:"statement,omitempty"`
}

// correctSet returns the correct answers as a normalized lookup set.
func (q *Question) correctSet() map[string]struct{} {
	set := make(map[string]struct{}, len(q.Correct))
	for _, answer := range q.Correct {
		set[normalize(answer)] = struct{}{}
	}
	return set
}

// normalize prepares an answer for case-insensitive, whitespace-trimmed
// comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
