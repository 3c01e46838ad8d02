package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check for them with errors.Is().
var (
	// ErrCardNotFound indicates that no card with the given ID is in the deck.
	ErrCardNotFound = errors.New("card not found")
)
