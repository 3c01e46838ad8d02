package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

var deckKey = []byte("deck")

const dirPerm = 0o750

// Options configures how the database is opened.
type Options struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps everything in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Logger receives badger's internal log lines at debug level and above.
	// Nil disables them.
	Logger *slog.Logger
}

// badgerLogger adapts slog to badger's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the database described by opts. The caller must Close it.
func Open(opts Options) (*badger.DB, error) {
	if !opts.InMemory && opts.Path == "" {
		return nil, errors.New("path is required for a persistent database")
	}

	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(opts.Path, dirPerm); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", opts.Path, err)
		}
		bopts = badger.DefaultOptions(opts.Path)
	}

	bopts = bopts.WithSyncWrites(opts.SyncWrites).WithNumVersionsToKeep(1)
	if opts.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: opts.Logger.With(slog.String("component", "badger"))})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// KVStore keeps the deck and its backups in a badger database.
type KVStore struct {
	db     *badger.DB
	logger *slog.Logger
}

// Compile-time checks to ensure KVStore implements both store interfaces.
var (
	_ store.DeckStore   = (*KVStore)(nil)
	_ store.BackupStore = (*KVStore)(nil)
)

// New wraps an open database. The KVStore does not own db; closing it
// stays with the caller.
func New(db *badger.DB, logger *slog.Logger) *KVStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &KVStore{
		db:     db,
		logger: logger.With(slog.String("component", "kv_store")),
	}
}

// Load implements store.DeckStore.
func (s *KVStore) Load(ctx context.Context) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := s.get(deckKey)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "load", "failed to read deck", err)
	}

	deck, err := store.DecodeDeck(data)
	if err != nil {
		return nil, store.NewStoreError("deck", "load", "failed to decode deck", err)
	}

	s.logger.Debug("deck loaded", slog.Int("cards", len(deck.Cards)))
	return deck, nil
}

// Save implements store.DeckStore. The write is a single badger transaction.
func (s *KVStore) Save(ctx context.Context, deck *domain.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := store.EncodeDeck(deck)
	if err != nil {
		return store.NewStoreError("deck", "save", "failed to encode deck", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(deckKey, data)
	}); err != nil {
		return store.NewStoreError("deck", "save", "failed to write deck", err)
	}

	s.logger.Debug("deck saved")
	return nil
}

func (s *KVStore) get(key []byte) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}
