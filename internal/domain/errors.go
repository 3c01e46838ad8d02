// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrInvalidRating is returned when a rating is not one of weak, good or great.
	ErrInvalidRating = errors.New("invalid rating")

	// ErrDuplicateCardID is returned when two cards in one deck share an ID.
	ErrDuplicateCardID = errors.New("duplicate card ID in deck")
)
