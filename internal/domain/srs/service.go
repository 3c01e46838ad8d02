package srs

import (
	"errors"
	"math"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Common errors
var (
	ErrNilCard = errors.New("card cannot be nil")
)

// Service defines the interface for scheduling operations
type Service interface {
	// CalculateNextReview returns a copy of card with the rating recorded:
	// counters incremented, last rating set and the next due date advanced
	// from now by the rating's interval.
	CalculateNextReview(card *domain.Card, rating domain.Rating, now time.Time) (*domain.Card, error)

	// Weight returns the draw weight for a card.
	Weight(card *domain.Card) int
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// CalculateNextReview implements the Service interface.
func (s *defaultService) CalculateNextReview(
	card *domain.Card,
	rating domain.Rating,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !rating.IsGraded() {
		return nil, domain.ErrInvalidRating
	}

	next := card.Clone()
	next.TimesShown++
	switch rating {
	case domain.RatingWeak:
		next.TimesWeak++
	case domain.RatingGood:
		next.TimesGood++
	case domain.RatingGreat:
		next.TimesGreat++
	}
	next.LastRating = rating
	next.NextDue = now.AddDate(0, 0, s.intervalDays(rating))

	return next, nil
}

// Weight implements the Service interface.
func (s *defaultService) Weight(card *domain.Card) int {
	return s.params.Weight(card.LastRating)
}

// intervalDays rounds the configured interval half away from zero,
// so the half-day weak interval becomes one day.
func (s *defaultService) intervalDays(rating domain.Rating) int {
	return int(math.Round(s.params.IntervalDays[rating]))
}
