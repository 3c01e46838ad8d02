package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

const (
	listBackupsSQL = `SELECT name, created_at, card_count FROM deck_backups ORDER BY name DESC`

	upsertBackupSQL = `INSERT INTO deck_backups (name, document, card_count, created_at) VALUES ($1, $2, $3, $4)
ON CONFLICT (name) DO UPDATE SET document = EXCLUDED.document, card_count = EXCLUDED.card_count, created_at = EXCLUDED.created_at`

	selectBackupSQL = `SELECT document FROM deck_backups WHERE name = $1`

	deleteBackupSQL = `DELETE FROM deck_backups WHERE name = $1`
)

// ListBackups implements store.BackupStore.ListBackups.
func (s *PostgresDeckStore) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	rows, err := s.db.QueryContext(ctx, listBackupsSQL)
	if err != nil {
		return nil, store.NewStoreError("backup", "list", "failed to query backups", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	backups := []store.BackupInfo{}
	for rows.Next() {
		var info store.BackupInfo
		if err := rows.Scan(&info.Name, &info.CreatedAt, &info.Cards); err != nil {
			return nil, store.NewStoreError("backup", "list", "failed to scan backup row", err)
		}
		info.CreatedAt = info.CreatedAt.UTC()
		backups = append(backups, info)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("backup", "list", "failed to iterate backups", MapError(err))
	}

	store.SortBackups(backups)
	return backups, nil
}

// CreateBackup implements store.BackupStore.CreateBackup.
func (s *PostgresDeckStore) CreateBackup(
	ctx context.Context,
	deck *domain.Deck,
	at time.Time,
) (store.BackupInfo, error) {
	name := store.BackupName(at)
	createdAt, _ := store.ParseBackupName(name)

	document, err := store.EncodeDeck(deck)
	if err != nil {
		return store.BackupInfo{}, store.NewStoreError("backup", "create", "failed to encode deck", err)
	}
	cards := 0
	if deck != nil {
		cards = len(deck.Cards)
	}

	if _, err := s.db.ExecContext(ctx, upsertBackupSQL, name, string(document), cards, createdAt); err != nil {
		return store.BackupInfo{}, store.NewStoreError("backup", "create", "failed to store backup", MapError(err))
	}

	s.logger.Info("backup created", slog.String("name", name), slog.Int("cards", cards))
	return store.BackupInfo{Name: name, CreatedAt: createdAt, Cards: cards}, nil
}

// LoadBackup implements store.BackupStore.LoadBackup.
// Returns store.ErrBackupNotFound if the backup does not exist.
func (s *PostgresDeckStore) LoadBackup(ctx context.Context, name string) (*domain.Deck, error) {
	if _, err := store.ParseBackupName(name); err != nil {
		return nil, err
	}

	var document []byte
	err := s.db.QueryRowContext(ctx, selectBackupSQL, name).Scan(&document)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)
		}
		return nil, store.NewStoreError("backup", "load", "failed to query backup "+name, MapError(err))
	}

	deck, err := store.DecodeDeck(document)
	if err != nil {
		return nil, store.NewStoreError("backup", "load", "failed to decode backup "+name, err)
	}
	return deck, nil
}

// DeleteBackup implements store.BackupStore.DeleteBackup.
// Returns store.ErrBackupNotFound if the backup does not exist.
func (s *PostgresDeckStore) DeleteBackup(ctx context.Context, name string) error {
	if _, err := store.ParseBackupName(name); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, deleteBackupSQL, name)
	if err != nil {
		return store.NewStoreError("backup", "delete", "failed to delete backup "+name, MapError(err))
	}
	if err := checkRowsAffected(result, fmt.Errorf("%w: %s", store.ErrBackupNotFound, name)); err != nil {
		return err
	}

	s.logger.Info("backup deleted", slog.String("name", name))
	return nil
}
