package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

const (
	selectDeckSQL = `SELECT document FROM decks WHERE id = 1`

	upsertDeckSQL = `INSERT INTO decks (id, document, updated_at) VALUES (1, $1, NOW())
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`
)

// PostgresDeckStore implements store.DeckStore and store.BackupStore
// using a PostgreSQL database as the storage backend.
type PostgresDeckStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure PostgresDeckStore implements both store interfaces
var (
	_ store.DeckStore   = (*PostgresDeckStore)(nil)
	_ store.BackupStore = (*PostgresDeckStore)(nil)
)

// NewPostgresDeckStore creates a new PostgreSQL deck store.
// The connection is owned by the caller. If logger is nil, a default logger will be used.
func NewPostgresDeckStore(db *sql.DB, logger *slog.Logger) *PostgresDeckStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresDeckStore{
		db:     db,
		logger: logger.With(slog.String("component", "deck_store")),
	}
}

// Load implements store.DeckStore.Load.
// Returns store.ErrDeckNotFound if no deck row exists.
func (s *PostgresDeckStore) Load(ctx context.Context) (*domain.Deck, error) {
	var document []byte
	err := s.db.QueryRowContext(ctx, selectDeckSQL).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "load", "failed to query deck", MapError(err))
	}

	deck, err := store.DecodeDeck(document)
	if err != nil {
		return nil, store.NewStoreError("deck", "load", "failed to decode deck", err)
	}

	s.logger.Debug("deck loaded", slog.Int("cards", len(deck.Cards)))
	return deck, nil
}

// Save implements store.DeckStore.Save.
// The deck row is replaced inside a transaction.
func (s *PostgresDeckStore) Save(ctx context.Context, deck *domain.Deck) error {
	document, err := store.EncodeDeck(deck)
	if err != nil {
		return store.NewStoreError("deck", "save", "failed to encode deck", err)
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return writeDeck(ctx, tx, document)
	})
	if err != nil {
		return store.NewStoreError("deck", "save", "failed to store deck", MapError(err))
	}

	s.logger.Debug("deck saved")
	return nil
}

// writeDeck upserts the single deck row through q.
func writeDeck(ctx context.Context, q store.DBTX, document []byte) error {
	_, err := q.ExecContext(ctx, upsertDeckSQL, string(document))
	return err
}
