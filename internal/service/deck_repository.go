package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/store"
)

// DeckRepository holds the active deck in memory and persists it through
// the configured stores.
type DeckRepository struct {
	cards   []*domain.Card
	decks   store.DeckStore
	backups store.BackupStore
	logger  *slog.Logger
}

// NewDeckRepository creates an empty repository. Call Load to populate it.
// It returns an error if any of the required dependencies are nil.
func NewDeckRepository(
	decks store.DeckStore,
	backups store.BackupStore,
	logger *slog.Logger,
) (*DeckRepository, error) {
	if decks == nil {
		return nil, fmt.Errorf("%w: deck store cannot be nil", domain.ErrValidation)
	}
	if backups == nil {
		return nil, fmt.Errorf("%w: backup store cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DeckRepository{
		cards:   []*domain.Card{},
		decks:   decks,
		backups: backups,
		logger:  logger.With(slog.String("component", "deck_repository")),
	}, nil
}

// Load reads the persisted deck. When nothing has been persisted yet the
// sample deck is seeded and saved. When the persisted deck cannot be read
// the sample deck is used in memory only, leaving the unreadable data in
// place until the next save. It reports whether the sample deck was seeded.
func (r *DeckRepository) Load(ctx context.Context) bool {
	log := logger.FromContextOrDefault(ctx, r.logger)

	deck, err := r.decks.Load(ctx)
	switch {
	case err == nil:
		r.cards = deck.Cards
		log.Info("deck loaded", slog.Int("cards", len(r.cards)))
		return false

	case errors.Is(err, store.ErrDeckNotFound):
		r.cards = domain.SampleDeck().Cards
		log.Info("no deck found, seeded sample deck", slog.Int("cards", len(r.cards)))
		if err := r.Save(ctx); err != nil {
			log.Warn("failed to persist sample deck", slog.String("error", err.Error()))
		}
		return true

	default:
		r.cards = domain.SampleDeck().Cards
		log.Warn("failed to load deck, using sample deck",
			slog.String("error", err.Error()),
			slog.Int("cards", len(r.cards)))
		return true
	}
}

// Save persists the current deck.
func (r *DeckRepository) Save(ctx context.Context) error {
	if err := r.decks.Save(ctx, r.snapshot()); err != nil {
		return fmt.Errorf("failed to save deck: %w", err)
	}
	return nil
}

// Len returns the number of cards in the deck.
func (r *DeckRepository) Len() int {
	return len(r.cards)
}

// Cards returns copies of every card in deck order.
func (r *DeckRepository) Cards() []*domain.Card {
	return r.snapshot().Cards
}

// Find returns a copy of the card with the given ID.
func (r *DeckRepository) Find(id uuid.UUID) (*domain.Card, bool) {
	if i := r.indexOf(id); i >= 0 {
		return r.cards[i].Clone(), true
	}
	return nil, false
}

// Contains reports whether a card with the given ID is in the deck.
func (r *DeckRepository) Contains(id uuid.UUID) bool {
	return r.indexOf(id) >= 0
}

// Add appends a copy of card to the end of the deck.
func (r *DeckRepository) Add(card *domain.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card cannot be nil", domain.ErrValidation)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	if r.Contains(card.ID) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateCardID, card.ID)
	}
	r.cards = append(r.cards, card.Clone())
	return nil
}

// Update replaces the stored card that has the same ID as card, keeping
// its position in the deck.
func (r *DeckRepository) Update(card *domain.Card) error {
	if card == nil {
		return fmt.Errorf("%w: card cannot be nil", domain.ErrValidation)
	}
	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}
	i := r.indexOf(card.ID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, card.ID)
	}
	r.cards[i] = card.Clone()
	return nil
}

// Remove deletes the card with the given ID.
func (r *DeckRepository) Remove(id uuid.UUID) error {
	i := r.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	r.cards = append(r.cards[:i], r.cards[i+1:]...)
	return nil
}

// Replace swaps the whole deck for cards after validating them as a deck.
func (r *DeckRepository) Replace(cards []*domain.Card) error {
	next := domain.NewDeck(cards...)
	if err := next.Validate(); err != nil {
		return err
	}
	r.cards = next.Clone().Cards
	return nil
}

// Append adds cards after the existing ones. Either all cards are added
// or, if the combined deck is invalid, none are.
func (r *DeckRepository) Append(cards []*domain.Card) error {
	combined := make([]*domain.Card, 0, len(r.cards)+len(cards))
	combined = append(combined, r.cards...)
	combined = append(combined, cards...)
	return r.Replace(combined)
}

// ImportDeck replaces the deck with a deck JSON document. The document is
// decoded and validated before anything changes.
func (r *DeckRepository) ImportDeck(data []byte) error {
	deck, err := store.DecodeDeck(data)
	if err != nil {
		return fmt.Errorf("failed to import deck: %w", err)
	}
	r.cards = deck.Cards
	r.logger.Info("deck imported", slog.Int("cards", len(r.cards)))
	return nil
}

// ExportDeck encodes the current deck as a deck JSON document.
func (r *DeckRepository) ExportDeck() ([]byte, error) {
	return store.EncodeDeck(r.snapshot())
}

// ListBackups returns the available backups, newest first.
func (r *DeckRepository) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	backups, err := r.backups.ListBackups(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list backups: %w", err)
	}
	return backups, nil
}

// CreateBackup stores the current deck as a backup stamped with at.
func (r *DeckRepository) CreateBackup(ctx context.Context, at time.Time) (store.BackupInfo, error) {
	info, err := r.backups.CreateBackup(ctx, r.snapshot(), at)
	if err != nil {
		return store.BackupInfo{}, fmt.Errorf("failed to create backup: %w", err)
	}
	return info, nil
}

// RestoreBackup replaces the deck with the named backup.
// Returns an error wrapping store.ErrBackupNotFound if it does not exist.
func (r *DeckRepository) RestoreBackup(ctx context.Context, name string) error {
	deck, err := r.backups.LoadBackup(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}
	r.cards = deck.Cards
	r.logger.Info("backup restored",
		slog.String("name", name),
		slog.Int("cards", len(r.cards)))
	return nil
}

// DeleteBackup removes the named backup.
func (r *DeckRepository) DeleteBackup(ctx context.Context, name string) error {
	if err := r.backups.DeleteBackup(ctx, name); err != nil {
		return fmt.Errorf("failed to delete backup: %w", err)
	}
	return nil
}

func (r *DeckRepository) indexOf(id uuid.UUID) int {
	for i, card := range r.cards {
		if card.ID == id {
			return i
		}
	}
	return -1
}

func (r *DeckRepository) snapshot() *domain.Deck {
	return domain.NewDeck(r.cards...).Clone()
}
