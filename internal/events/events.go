package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Session event types emitted by the review and quiz engines.
const (
	// TypeWordMastered fires when a word transitions into the mastered
	// level during a review session.
	TypeWordMastered = "session.word_mastered"

	// TypeDailyGoalReached fires when a completing session pushes the
	// day's study total from under the goal to at or above it.
	TypeDailyGoalReached = "session.daily_goal_reached"

	// TypeSessionCompleted fires when a review session or quiz finishes.
	TypeSessionCompleted = "session.completed"
)

// SessionEvent is a single session lifecycle notification with a
// type-specific JSON payload.
type SessionEvent struct {
	// ID is a unique identifier for this event.
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants.
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON.
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created.
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *SessionEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewSessionEvent creates a new SessionEvent with the given type and payload.
func NewSessionEvent(eventType string, payload interface{}) (*SessionEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &SessionEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Handler processes session events. Handlers must not block for long; they
// run synchronously on the emitting goroutine.
type Handler interface {
	HandleEvent(ctx context.Context, event *SessionEvent) error
}

// Emitter publishes session events to registered handlers. Services emit
// without direct knowledge of the handlers.
type Emitter interface {
	EmitEvent(ctx context.Context, event *SessionEvent) error
}
