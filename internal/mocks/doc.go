// Package mocks provides centralized mock implementations for testing.
//
// Storage mocks are built on testify/mock so tests can script calls and
// verify expectations:
//
//	decks := &mocks.TestifyMockDeckStore{}
//	decks.On("Load", mock.Anything).Return(nil, store.ErrDeckNotFound)
//	decks.On("Save", mock.Anything, mock.Anything).Return(nil)
//	...
//	decks.AssertExpectations(t)
//
// MockEventEmitter records emitted events and can replace the emit
// behavior through its function field.
package mocks
