package study

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-deck/internal/csvimport"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/events"
	"github.com/phrazzld/scry-deck/internal/platform/logger"
	"github.com/phrazzld/scry-deck/internal/store"
)

// ImportMode selects how imported cards combine with the existing deck.
type ImportMode int

const (
	// ImportReplace discards the existing deck and its scheduling history.
	ImportReplace ImportMode = iota

	// ImportAppend adds the imported cards after the existing ones.
	ImportAppend
)

// String returns the mode name.
func (m ImportMode) String() string {
	switch m {
	case ImportReplace:
		return "replace"
	case ImportAppend:
		return "append"
	default:
		return fmt.Sprintf("ImportMode(%d)", int(m))
	}
}

// Cards returns copies of every card in deck order.
func (e *Engine) Cards() []*domain.Card {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.Cards()
}

// Card returns a copy of the card with the given ID.
func (e *Engine) Card(id uuid.UUID) (*domain.Card, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	card, ok := e.repo.Find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	return card, nil
}

// AddCard appends a new unrated card that is due immediately.
// When no card is presented, the next card is picked afterwards.
func (e *Engine) AddCard(ctx context.Context, lesson, question, answer string) (*domain.Card, error) {
	card := domain.NewCard(lesson, question, answer)

	e.mu.Lock()
	if err := e.repo.Add(card); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("failed to add card: %w", err)
	}
	e.persist(ctx)
	e.recomputeStats()

	var notes pending
	if e.current == nil {
		e.pickNext(e.clock(), &notes)
	}
	e.mu.Unlock()

	e.emit(ctx, notes)
	return card.Clone(), nil
}

// UpdateCard replaces the lesson and both sides of a card. Review history
// and schedule are kept.
func (e *Engine) UpdateCard(ctx context.Context, id uuid.UUID, lesson, question, answer string) error {
	e.mu.Lock()
	card, ok := e.repo.Find(id)
	if !ok {
		e.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}

	card.UpdateContent(lesson, question, answer)
	if err := e.repo.Update(card); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to update card: %w", err)
	}
	e.persist(ctx)
	e.recomputeStats()

	var notes pending
	if e.current != nil && e.current.ID == id {
		e.current = card.Clone()
		notes.add(events.SessionChanged, id, e.clock())
	}
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// DeleteCard removes a card. Deleting the presented card picks another one.
func (e *Engine) DeleteCard(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	if err := e.repo.Remove(id); err != nil {
		e.mu.Unlock()
		return err
	}
	delete(e.seenInCycle, id)
	delete(e.dueCardsSeen, id)
	e.persist(ctx)
	e.recomputeStats()

	var notes pending
	if e.current != nil && e.current.ID == id {
		e.pickNext(e.clock(), &notes)
	} else {
		notes.add(events.SessionChanged, e.currentID(), e.clock())
	}
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// ImportCSV parses text as semicolon or tab separated lesson, question and
// answer rows and adds the cards according to mode.
func (e *Engine) ImportCSV(ctx context.Context, text string, mode ImportMode) (csvimport.Result, error) {
	log := logger.FromContextOrDefault(ctx, e.logger)
	result := csvimport.ParseWithLogger(text, log)

	e.mu.Lock()
	var err error
	switch mode {
	case ImportReplace:
		err = e.repo.Replace(result.Cards)
	case ImportAppend:
		err = e.repo.Append(result.Cards)
	default:
		err = fmt.Errorf("%w: unknown import mode %d", domain.ErrValidation, int(mode))
	}
	if err != nil {
		e.mu.Unlock()
		return csvimport.Result{}, fmt.Errorf("failed to import cards: %w", err)
	}

	log.Info("csv imported",
		slog.String("mode", mode.String()),
		slog.Int("cards", len(result.Cards)),
		slog.Int("skipped", result.Skipped))

	var notes pending
	if mode == ImportReplace {
		e.deckReplaced(ctx, &notes)
	} else {
		e.persist(ctx)
		e.recomputeStats()
		if e.current == nil {
			e.pickNext(e.clock(), &notes)
		} else {
			notes.add(events.SessionChanged, e.current.ID, e.clock())
		}
	}
	e.mu.Unlock()

	e.emit(ctx, notes)
	return result, nil
}

// ImportDeck replaces the deck with a deck JSON document. A malformed
// document leaves the current deck untouched.
func (e *Engine) ImportDeck(ctx context.Context, data []byte) error {
	e.mu.Lock()
	if err := e.repo.ImportDeck(data); err != nil {
		e.mu.Unlock()
		return err
	}
	var notes pending
	e.deckReplaced(ctx, &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// ExportDeck encodes the deck as a deck JSON document.
func (e *Engine) ExportDeck() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.ExportDeck()
}

// CreateNewDeck replaces the deck with an empty one.
func (e *Engine) CreateNewDeck(ctx context.Context) error {
	return e.replaceDeck(ctx, "new", domain.NewDeck())
}

// CreateSampleDeck replaces the deck with the sample deck.
func (e *Engine) CreateSampleDeck(ctx context.Context) error {
	return e.replaceDeck(ctx, "sample", domain.SampleDeck())
}

// DeleteDeck discards the deck and its history and reseeds the sample deck.
func (e *Engine) DeleteDeck(ctx context.Context) error {
	return e.replaceDeck(ctx, "delete", domain.SampleDeck())
}

func (e *Engine) replaceDeck(ctx context.Context, action string, deck *domain.Deck) error {
	e.mu.Lock()
	if err := e.repo.Replace(deck.Cards); err != nil {
		e.mu.Unlock()
		return fmt.Errorf("failed to replace deck: %w", err)
	}
	logger.FromContextOrDefault(ctx, e.logger).Info("deck replaced",
		slog.String("action", action),
		slog.Int("cards", len(deck.Cards)))

	var notes pending
	e.deckReplaced(ctx, &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// deckReplaced persists a swapped-in deck and starts a fresh session on it.
// Callers hold e.mu.
func (e *Engine) deckReplaced(ctx context.Context, notes *pending) {
	now := e.clock()
	e.persist(ctx)
	e.recomputeStats()
	e.resetCycle()
	notes.add(events.DeckReplaced, uuid.Nil, now)
	e.pickNext(now, notes)
}

// CreateBackup stores the current deck as a backup named after the current
// minute in UTC. Once called it runs to completion even if ctx is cancelled.
func (e *Engine) CreateBackup(ctx context.Context) (store.BackupInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.CreateBackup(context.WithoutCancel(ctx), e.clock())
}

// ListBackups returns the available backups, newest first.
func (e *Engine) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.ListBackups(ctx)
}

// RestoreBackup replaces the deck with the named backup.
// A missing or malformed backup leaves the current deck untouched.
func (e *Engine) RestoreBackup(ctx context.Context, name string) error {
	e.mu.Lock()
	if err := e.repo.RestoreBackup(ctx, name); err != nil {
		e.mu.Unlock()
		return err
	}
	var notes pending
	e.deckReplaced(ctx, &notes)
	e.mu.Unlock()

	e.emit(ctx, notes)
	return nil
}

// DeleteBackup removes the named backup.
func (e *Engine) DeleteBackup(ctx context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.repo.DeleteBackup(ctx, name)
}
