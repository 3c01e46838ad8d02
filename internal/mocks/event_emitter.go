package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-deck/internal/events"
)

// MockEventEmitter implements events.EventEmitter for testing
type MockEventEmitter struct {
	// Custom behavior function
	EmitEventFn func(ctx context.Context, event *events.Event) error

	// Default return value
	DefaultError error

	mu     sync.Mutex
	events []*events.Event
}

// EmitEvent implements the EventEmitter.EmitEvent method
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()

	if m.EmitEventFn != nil {
		return m.EmitEventFn(ctx, event)
	}
	return m.DefaultError
}

// Events returns every event emitted so far.
func (m *MockEventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}

// Types returns the types of every emitted event in order.
func (m *MockEventEmitter) Types() []events.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]events.Type, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}

// Count returns how many events of the given type were emitted.
func (m *MockEventEmitter) Count(eventType events.Type) int {
	n := 0
	for _, t := range m.Types() {
		if t == eventType {
			n++
		}
	}
	return n
}

// Reset forgets every recorded event.
func (m *MockEventEmitter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)
