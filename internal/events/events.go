package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by review sessions.
const (
	TypeSessionStarted   = "session_started"
	TypeWordGraded       = "word_graded"
	TypeSessionCompleted = "session_completed"
)

// ReviewEvent describes one thing that happened during a review session.
type ReviewEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	SessionID uuid.UUID `json:"session_id"`
	Mode      string    `json:"mode"`

	// Word fields are set on word_graded events only.
	WordID       int64     `json:"word_id,omitempty"`
	Direction    string    `json:"direction,omitempty"`
	Correct      bool      `json:"correct"`
	Overridden   bool      `json:"overridden,omitempty"`
	Scored       bool      `json:"scored"`
	StageIndex   int       `json:"stage_index"`
	NextReviewAt time.Time `json:"next_review_at,omitempty"`

	// Position and Total track progress through the queue.
	Position int `json:"position"`
	Total    int `json:"total"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewReviewEvent creates a ReviewEvent with a fresh ID.
func NewReviewEvent(eventType string, sessionID uuid.UUID, mode string, at time.Time) *ReviewEvent {
	return &ReviewEvent{
		ID:        uuid.New(),
		Type:      eventType,
		SessionID: sessionID,
		Mode:      mode,
		CreatedAt: at,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *ReviewEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows sessions to publish events without direct knowledge of handlers.
type EventEmitter interface {
	EmitEvent(ctx context.Context, event *ReviewEvent) error
}

// EventHandlerFunc adapts a plain function to EventHandler.
type EventHandlerFunc func(ctx context.Context, event *ReviewEvent) error

// HandleEvent calls f.
func (f EventHandlerFunc) HandleEvent(ctx context.Context, event *ReviewEvent) error {
	return f(ctx, event)
}
