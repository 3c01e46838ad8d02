package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Deck is the ordered collection of cards persisted as a single unit.
type Deck struct {
	Cards []*Card `json:"cards"`
}

// NewDeck creates a deck holding the given cards in order.
func NewDeck(cards ...*Card) *Deck {
	if cards == nil {
		cards = []*Card{}
	}
	return &Deck{Cards: cards}
}

// Validate checks every card and ensures no two cards share an ID.
func (d *Deck) Validate() error {
	seen := make(map[uuid.UUID]struct{}, len(d.Cards))
	for i, card := range d.Cards {
		if card == nil {
			return fmt.Errorf("%w: card %d is null", ErrValidation, i)
		}
		if err := card.Validate(); err != nil {
			return fmt.Errorf("%w: card %d: %w", ErrValidation, i, err)
		}
		if _, dup := seen[card.ID]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateCardID, card.ID)
		}
		seen[card.ID] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the deck.
func (d *Deck) Clone() *Deck {
	cards := make([]*Card, len(d.Cards))
	for i, card := range d.Cards {
		cards[i] = card.Clone()
	}
	return &Deck{Cards: cards}
}

// SampleDeck returns the small deck seeded when no deck has been persisted yet.
// Every call produces fresh card IDs.
func SampleDeck() *Deck {
	return NewDeck(
		NewCard("Math", "2 + 2?", "4"),
		NewCard("Math", "What is 7 × 8?", "56"),
		NewCard("Math", "Square root of 81?", "9"),
		NewCard("Geography", "Capital of France?", "Paris"),
		NewCard("Geography", "Longest river in Africa?", "The Nile"),
		NewCard("Go", "Which keyword starts a goroutine?", "go"),
		NewCard("Go", "Zero value of a map?", "nil"),
	)
}
