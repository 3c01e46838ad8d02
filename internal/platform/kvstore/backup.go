package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

const backupPrefix = "backup/"

func backupKey(name string) []byte {
	return []byte(backupPrefix + name)
}

// ListBackups implements store.BackupStore.
func (s *KVStore) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	backups := []store.BackupInfo{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(backupPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			name := strings.TrimPrefix(string(item.Key()), backupPrefix)
			createdAt, err := store.ParseBackupName(name)
			if err != nil {
				continue
			}

			info := store.BackupInfo{Name: name, CreatedAt: createdAt, Cards: -1}
			err = item.Value(func(val []byte) error {
				deck, err := store.DecodeDeck(val)
				if err != nil {
					return err
				}
				info.Cards = len(deck.Cards)
				return nil
			})
			if err != nil {
				s.logger.Warn("backup is unreadable",
					slog.String("name", name),
					slog.String("error", err.Error()))
			}
			backups = append(backups, info)
		}
		return nil
	})
	if err != nil {
		return nil, store.NewStoreError("backup", "list", "failed to iterate backups", err)
	}

	store.SortBackups(backups)
	return backups, nil
}

// CreateBackup implements store.BackupStore.
func (s *KVStore) CreateBackup(
	ctx context.Context,
	deck *domain.Deck,
	at time.Time,
) (store.BackupInfo, error) {
	if err := ctx.Err(); err != nil {
		return store.BackupInfo{}, err
	}

	name := store.BackupName(at)
	data, err := store.EncodeDeck(deck)
	if err != nil {
		return store.BackupInfo{}, store.NewStoreError("backup", "create", "failed to encode deck", err)
	}

	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(backupKey(name), data)
	}); err != nil {
		return store.BackupInfo{}, store.NewStoreError("backup", "create", "failed to write backup", err)
	}

	createdAt, _ := store.ParseBackupName(name)
	cards := 0
	if deck != nil {
		cards = len(deck.Cards)
	}

	s.logger.Info("backup created",
		slog.String("name", name),
		slog.Int("cards", cards))
	return store.BackupInfo{Name: name, CreatedAt: createdAt, Cards: cards}, nil
}

// LoadBackup implements store.BackupStore.
func (s *KVStore) LoadBackup(ctx context.Context, name string) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := store.ParseBackupName(name); err != nil {
		return nil, err
	}

	data, err := s.get(backupKey(name))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)
		}
		return nil, store.NewStoreError("backup", "load", "failed to read backup "+name, err)
	}

	deck, err := store.DecodeDeck(data)
	if err != nil {
		return nil, store.NewStoreError("backup", "load", "failed to decode backup "+name, err)
	}
	return deck, nil
}

// DeleteBackup implements store.BackupStore.
func (s *KVStore) DeleteBackup(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := store.ParseBackupName(name); err != nil {
		return err
	}

	// badger deletes are blind, so check existence in the same transaction.
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(backupKey(name)); err != nil {
			return err
		}
		return txn.Delete(backupKey(name))
	})
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)
		}
		return store.NewStoreError("backup", "delete", "failed to delete backup "+name, err)
	}

	s.logger.Info("backup deleted", slog.String("name", name))
	return nil
}
