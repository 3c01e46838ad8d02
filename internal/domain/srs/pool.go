package srs

import (
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// Filter selects which cards are eligible for study.
type Filter struct {
	// Lessons restricts the pool to these lesson labels. Empty means every lesson.
	Lessons map[string]struct{}

	// OnlyDue restricts the pool to cards due at or before the evaluation time.
	OnlyDue bool
}

// Includes reports whether a single card passes the filter at now.
func (f Filter) Includes(card *domain.Card, now time.Time) bool {
	if len(f.Lessons) > 0 {
		if _, ok := f.Lessons[card.Lesson]; !ok {
			return false
		}
	}
	if f.OnlyDue && !card.IsDue(now) {
		return false
	}
	return true
}

// FilterPool returns the cards that pass the filter, in deck order.
// The input slice is not modified; the returned slice shares card pointers with it.
func FilterPool(cards []*domain.Card, filter Filter, now time.Time) []*domain.Card {
	pool := make([]*domain.Card, 0, len(cards))
	for _, card := range cards {
		if filter.Includes(card, now) {
			pool = append(pool, card)
		}
	}
	return pool
}
