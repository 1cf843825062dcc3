package api

import (
	"sync"

	"github.com/google/uuid"
	"github.com/wordloop/wordloop-api/internal/service/quiz"
	"github.com/wordloop/wordloop-api/internal/service/review"
)

// SessionRegistry tracks the active review sessions and quizzes in memory,
// keyed by session ID and scoped to their owning user. Each user drives at
// most a handful of concurrent sessions, so a plain map under a mutex is
// enough.
type SessionRegistry struct {
	mu      sync.RWMutex
	reviews map[uuid.UUID]*ownedReview
	quizzes map[uuid.UUID]*ownedQuiz
}

type ownedReview struct {
	userID  uuid.UUID
	session *review.Session
}

type ownedQuiz struct {
	userID uuid.UUID
	engine *quiz.Engine
}

// NewSessionRegistry creates an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{
		reviews: make(map[uuid.UUID]*ownedReview),
		quizzes: make(map[uuid.UUID]*ownedQuiz),
	}
}

// PutReview registers an active review session for the user.
func (r *SessionRegistry) PutReview(userID uuid.UUID, session *review.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews[session.ID()] = &ownedReview{userID: userID, session: session}
}

// GetReview returns the user's review session by ID, or false when the
// session does not exist or belongs to another user.
func (r *SessionRegistry) GetReview(id, userID uuid.UUID) (*review.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned, ok := r.reviews[id]
	if !ok || owned.userID != userID {
		return nil, false
	}
	return owned.session, true
}

// RemoveReview drops a review session from the registry. Returns false when
// the session does not exist or belongs to another user.
func (r *SessionRegistry) RemoveReview(id, userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.reviews[id]
	if !ok || owned.userID != userID {
		return false
	}
	delete(r.reviews, id)
	return true
}

// PutQuiz registers an active quiz for the user.
func (r *SessionRegistry) PutQuiz(userID uuid.UUID, engine *quiz.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.quizzes[engine.ID()] = &ownedQuiz{userID: userID, engine: engine}
}

// GetQuiz returns the user's quiz by ID, or false when the quiz does not
// exist or belongs to another user.
func (r *SessionRegistry) GetQuiz(id, userID uuid.UUID) (*quiz.Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	owned, ok := r.quizzes[id]
	if !ok || owned.userID != userID {
		return nil, false
	}
	return owned.engine, true
}

// RemoveQuiz drops a quiz from the registry, cancelling its countdown.
// Returns false when the quiz does not exist or belongs to another user.
func (r *SessionRegistry) RemoveQuiz(id, userID uuid.UUID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	owned, ok := r.quizzes[id]
	if !ok || owned.userID != userID {
		return false
	}
	owned.engine.Close()
	delete(r.quizzes, id)
	return true
}
