package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened.
type Type string

// Event types published by the study engine.
const (
	// SessionChanged is emitted whenever the current card, the answer
	// visibility, or the active filter changes.
	SessionChanged Type = "session.changed"

	// CardRated is emitted after a rating has been recorded and persisted.
	CardRated Type = "card.rated"

	// CycleCompleted is emitted when every card in the pool has been shown
	// once and the cycle started over.
	CycleCompleted Type = "cycle.completed"

	// DeckReplaced is emitted after the whole deck was swapped out by an
	// import, a restore, or a new/sample/delete deck action.
	DeckReplaced Type = "deck.replaced"
)

// Event is a single notification published by the engine.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened
	Type Type `json:"type"`

	// CardID is the card the event concerns, or uuid.Nil
	CardID uuid.UUID `json:"card_id"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// NewEvent creates an Event of the given type stamped with at.
func NewEvent(eventType Type, cardID uuid.UUID, at time.Time) *Event {
	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		CardID:    cardID,
		CreatedAt: at,
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts an ordinary function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent calls f(ctx, event).
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows the engine to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *Event) error { return nil }
