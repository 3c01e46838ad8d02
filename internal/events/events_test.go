package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *Event
	// Error to return from HandleEvent
	HandlerError error
	// Count of events handled
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestNewEvent(t *testing.T) {
	cardID := uuid.New()
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	event := NewEvent(CardRated, cardID, at)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, CardRated, event.Type)
	assert.Equal(t, cardID, event.CardID)
	assert.Equal(t, at, event.CreatedAt)

	other := NewEvent(CardRated, cardID, at)
	assert.NotEqual(t, event.ID, other.ID)
}

func TestHandlerFunc(t *testing.T) {
	var got *Event
	handler := HandlerFunc(func(_ context.Context, event *Event) error {
		got = event
		return errors.New("nope")
	})

	event := NewEvent(SessionChanged, uuid.Nil, time.Now())
	err := handler.HandleEvent(context.Background(), event)

	assert.EqualError(t, err, "nope")
	assert.Same(t, event, got)
}

func TestNopEmitter(t *testing.T) {
	assert.NoError(t, NopEmitter{}.EmitEvent(context.Background(), NewEvent(DeckReplaced, uuid.Nil, time.Now())))
}
