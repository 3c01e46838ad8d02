package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*KVStore, *badger.DB) {
	t.Helper()

	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db, nil), db
}

func TestOpenRequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(Options{})
	assert.Error(t, err)
}

func TestOpenPersistent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	dir := t.TempDir()

	db, err := Open(Options{Path: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, New(db, nil).Save(ctx, domain.SampleDeck()))
	require.NoError(t, db.Close())

	db, err = Open(Options{Path: dir})
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	loaded, err := New(db, nil).Load(ctx)
	require.NoError(t, err)
	assert.Len(t, loaded.Cards, len(domain.SampleDeck().Cards))
}

func TestNewPanicsOnNilDB(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { New(nil, nil) })
}

func TestLoadMissingDeck(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	deck, err := s.Load(context.Background())
	assert.Nil(t, deck)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(t)

	card := domain.NewCard("Geo", "Capital of Peru?", "Lima")
	card.LastRating = domain.RatingWeak
	card.NextDue = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, s.Save(ctx, domain.NewDeck(card)))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Cards, 1)
	assert.Equal(t, card.ID, loaded.Cards[0].ID)
	assert.Equal(t, domain.RatingWeak, loaded.Cards[0].LastRating)

	require.NoError(t, s.Save(ctx, domain.NewDeck()))
	loaded, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Cards)
}

func TestLoadCorruptDeck(t *testing.T) {
	t.Parallel()

	s, db := newTestStore(t)
	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		return txn.Set(deckKey, []byte("{not json"))
	}))

	_, err := s.Load(context.Background())
	assert.ErrorIs(t, err, store.ErrInvalidEntity)
	assert.False(t, store.IsNotFoundError(err))
}

func TestCancelledContext(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Load(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Save(ctx, domain.NewDeck()), context.Canceled)
	_, err = s.ListBackups(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBackupLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(t)

	backups, err := s.ListBackups(ctx)
	require.NoError(t, err)
	assert.Empty(t, backups)

	first := time.Date(2024, 3, 9, 7, 5, 30, 0, time.UTC)
	info, err := s.CreateBackup(ctx, domain.SampleDeck(), first)
	require.NoError(t, err)
	assert.Equal(t, "deck_backup_2024-03-09_07-05.json", info.Name)
	assert.Equal(t, len(domain.SampleDeck().Cards), info.Cards)

	_, err = s.CreateBackup(ctx, domain.NewDeck(), first.Add(time.Hour))
	require.NoError(t, err)

	backups, err = s.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 2)
	assert.Equal(t, "deck_backup_2024-03-09_08-05.json", backups[0].Name)
	assert.Equal(t, 0, backups[0].Cards)
	assert.Equal(t, info.Name, backups[1].Name)

	restored, err := s.LoadBackup(ctx, info.Name)
	require.NoError(t, err)
	assert.Len(t, restored.Cards, info.Cards)

	require.NoError(t, s.DeleteBackup(ctx, info.Name))
	_, err = s.LoadBackup(ctx, info.Name)
	assert.ErrorIs(t, err, store.ErrBackupNotFound)
	assert.ErrorIs(t, s.DeleteBackup(ctx, info.Name), store.ErrBackupNotFound)

	// The active deck is untouched by backup traffic.
	_, err = s.Load(ctx)
	assert.ErrorIs(t, err, store.ErrDeckNotFound)
}

func TestBackupSameMinuteOverwrites(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(t)
	at := time.Date(2024, 3, 9, 7, 5, 0, 0, time.UTC)

	_, err := s.CreateBackup(ctx, domain.SampleDeck(), at)
	require.NoError(t, err)
	_, err = s.CreateBackup(ctx, domain.NewDeck(), at.Add(40*time.Second))
	require.NoError(t, err)

	backups, err := s.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, 0, backups[0].Cards)
}

func TestBackupInvalidNames(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, _ := newTestStore(t)

	_, err := s.LoadBackup(ctx, "deck.json")
	assert.ErrorIs(t, err, store.ErrInvalidBackupName)
	assert.ErrorIs(t, s.DeleteBackup(ctx, "../deck"), store.ErrInvalidBackupName)
}

func TestListBackupsSkipsForeignKeysAndFlagsUnreadable(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s, db := newTestStore(t)

	require.NoError(t, db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(backupKey("notes.txt"), []byte("x")); err != nil {
			return err
		}
		return txn.Set(backupKey("deck_backup_2024-01-01_00-00.json"), []byte("garbage"))
	}))

	backups, err := s.ListBackups(ctx)
	require.NoError(t, err)
	require.Len(t, backups, 1)
	assert.Equal(t, -1, backups[0].Cards)
}
