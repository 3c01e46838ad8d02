package store

import (
	"encoding/json"
	"fmt"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// EncodeDeck serializes deck into the persisted JSON format.
func EncodeDeck(deck *domain.Deck) ([]byte, error) {
	if deck == nil {
		deck = domain.NewDeck()
	}
	if deck.Cards == nil {
		deck = domain.NewDeck(deck.Cards...)
	}

	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return data, nil
}

// DecodeDeck parses and validates a persisted deck payload. The returned
// deck is freshly allocated, so a failed decode never touches live state.
func DecodeDeck(data []byte) (*domain.Deck, error) {
	var deck domain.Deck
	if err := json.Unmarshal(data, &deck); err != nil {
		return nil, fmt.Errorf("%w: %w: %w", ErrInvalidEntity, domain.ErrInvalidFormat, err)
	}

	if deck.Cards == nil {
		deck.Cards = []*domain.Card{}
	}

	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntity, err)
	}

	return &deck, nil
}
