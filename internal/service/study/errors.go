package study

import (
	"errors"

	"github.com/phrazzld/scry-deck/internal/service"
)

var (
	// ErrNoCurrentCard is returned by Rate when no card is being presented,
	// or the presented card has since been removed from the deck.
	ErrNoCurrentCard = errors.New("no current card")

	// ErrCardNotFound is returned when an operation names a card that is not in the deck.
	ErrCardNotFound = service.ErrCardNotFound
)
