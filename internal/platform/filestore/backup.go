package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

// ListBackups implements store.BackupStore. Files in the backup directory
// that do not follow the backup naming scheme are ignored.
func (s *FileStore) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.BackupDir())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []store.BackupInfo{}, nil
		}
		return nil, store.NewStoreError("backup", "list", "failed to read backup directory", err)
	}

	backups := make([]store.BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		createdAt, err := store.ParseBackupName(entry.Name())
		if err != nil {
			continue
		}

		info := store.BackupInfo{Name: entry.Name(), CreatedAt: createdAt, Cards: -1}
		if deck, err := s.readBackup(entry.Name()); err == nil {
			info.Cards = len(deck.Cards)
		} else {
			s.logger.Warn("backup file is unreadable",
				slog.String("name", entry.Name()),
				slog.String("error", err.Error()))
		}
		backups = append(backups, info)
	}

	store.SortBackups(backups)
	return backups, nil
}

// CreateBackup implements store.BackupStore.
func (s *FileStore) CreateBackup(
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

	if err := writeFileAtomic(filepath.Join(s.BackupDir(), name), data); err != nil {
		return store.BackupInfo{}, store.NewStoreError("backup", "create", "failed to write backup file", err)
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
func (s *FileStore) LoadBackup(ctx context.Context, name string) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := store.ParseBackupName(name); err != nil {
		return nil, err
	}

	deck, err := s.readBackup(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)
		}
		return nil, store.NewStoreError("backup", "load", "failed to read backup "+name, err)
	}
	return deck, nil
}

// DeleteBackup implements store.BackupStore.
func (s *FileStore) DeleteBackup(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := store.ParseBackupName(name); err != nil {
		return err
	}

	if err := os.Remove(filepath.Join(s.BackupDir(), name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)
		}
		return store.NewStoreError("backup", "delete", "failed to remove backup "+name, err)
	}

	s.logger.Info("backup deleted", slog.String("name", name))
	return nil
}

func (s *FileStore) readBackup(name string) (*domain.Deck, error) {
	data, err := os.ReadFile(filepath.Join(s.BackupDir(), name))
	if err != nil {
		return nil, err
	}
	return store.DecodeDeck(data)
}
