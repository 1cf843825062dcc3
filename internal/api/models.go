package api

import (
	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/domain"
	"github.com/wordloop/wordloop-api/internal/service/quiz"
	"github.com/wordloop/wordloop-api/internal/service/review"
)

// RegisterRequest is the payload for user registration.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest is the payload for user login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned after successful registration or login.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`
	Token  string    `json:"token"`
}

// CreateWordRequest is the payload for adding a vocabulary word.
type CreateWordRequest struct {
	Term        string `json:"term"        validate:"required,max=200"`
	Translation string `json:"translation" validate:"required,max=500"`
	Category    string `json:"category"    validate:"max=100"`
}

// ImportWordsRequest is the payload for the transactional bulk import.
type ImportWordsRequest struct {
	Words []CreateWordRequest `json:"words" validate:"required,min=1,max=500,dive"`
}

// ListWordsResponse wraps a page of words.
type ListWordsResponse struct {
	Words []*domain.Word `json:"words"`
}

// StartReviewRequest is the payload for starting a review session.
type StartReviewRequest struct {
	Mode     string `json:"mode"     validate:"required,oneof=learning review"`
	Category string `json:"category" validate:"max=100"`
}

// SwipeRequest is the payload for a swipe on the current card.
type SwipeRequest struct {
	Direction string `json:"direction" validate:"required,oneof=left right down up"`
}

// ReviewStateResponse describes a review session's observable state.
type ReviewStateResponse struct {
	SessionID uuid.UUID       `json:"session_id"`
	State     review.State    `json:"state"`
	Stats     review.Stats    `json:"stats"`
	Position  int             `json:"position"`
	Total     int             `json:"total"`
	Current   *domain.Word    `json:"current,omitempty"`
	Effects   *review.Effects `json:"effects,omitempty"`
}

// StartQuizRequest is the payload for starting a quiz.
type StartQuizRequest struct {
	TestType string `json:"test_type" validate:"required,oneof=multiple_choice fill_in_blank listening true_false multi_select"`
	Category string `json:"category"  validate:"max=100"`
	Limit    int    `json:"limit"     validate:"omitempty,min=1,max=50"`
}

// AnswerRequest stages a free-text or chosen answer for the current question.
type AnswerRequest struct {
	Answer string `json:"answer"`
}

// SelectionRequest toggles a multi-select option.
type SelectionRequest struct {
	Option string `json:"option" validate:"required"`
}

// QuizQuestionView is the client-facing shape of a question: the correct
// answers stay server-side.
type QuizQuestionView struct {
	WordID    uuid.UUID `json:"word_id"`
	Prompt    string    `json:"prompt"`
	Options   []string  `json:"options,omitempty"`
	Statement string    `json:"statement,omitempty"`
}

// QuizStateResponse describes a quiz's observable state.
type QuizStateResponse struct {
	QuizID   uuid.UUID             `json:"quiz_id"`
	State    quiz.State            `json:"state"`
	Position int                   `json:"position"`
	Total    int                   `json:"total"`
	Question *QuizQuestionView     `json:"question,omitempty"`
	Outcome  quiz.Outcome          `json:"outcome,omitempty"`
	Result   *domain.SessionResult `json:"result,omitempty"`
	Wrong    []quiz.WrongAnswer    `json:"wrong_answers,omitempty"`
}

// questionView strips the correct answers from a question for transport.
func questionView(q *quiz.Question) *QuizQuestionView {
	if q == nil {
		return nil
	}
	return &QuizQuestionView{
		WordID:    q.WordID,
		Prompt:    q.Prompt,
		Options:   q.Options,
		Statement: q.Statement,
	}
}
