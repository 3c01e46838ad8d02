package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
)

// DeckStore persists the single active deck.
// Version: 1.0
type DeckStore interface {
	// Load returns the persisted deck.
	// Returns ErrDeckNotFound if nothing has been saved yet, and an error
	// wrapping ErrInvalidEntity if the persisted payload cannot be decoded.
	Load(ctx context.Context) (*domain.Deck, error)

	// Save replaces the persisted deck. Implementations must be atomic:
	// either the new deck is fully stored or the previous one is left intact.
	Save(ctx context.Context, deck *domain.Deck) error
}

// BackupStore keeps point-in-time copies of the deck.
// Version: 1.0
type BackupStore interface {
	// ListBackups returns every backup, newest first.
	ListBackups(ctx context.Context) ([]BackupInfo, error)

	// CreateBackup stores deck under the name derived from at.
	// A backup taken in the same minute as an existing one replaces it.
	CreateBackup(ctx context.Context, deck *domain.Deck, at time.Time) (BackupInfo, error)

	// LoadBackup decodes the named backup.
	// Returns ErrBackupNotFound if it does not exist.
	LoadBackup(ctx context.Context, name string) (*domain.Deck, error)

	// DeleteBackup removes the named backup.
	// Returns ErrBackupNotFound if it does not exist.
	DeleteBackup(ctx context.Context, name string) error
}

// Backup naming
const (
	backupPrefix     = "deck_backup_"
	backupSuffix     = ".json"
	backupTimeLayout = "2006-01-02_15-04"
)

// BackupInfo describes one stored backup.
type BackupInfo struct {
	// Name is the backup identifier, e.g. deck_backup_2024-05-01_09-30.json.
	Name string `json:"name"`

	// CreatedAt is the minute encoded in the name.
	CreatedAt time.Time `json:"createdAt"`

	// Cards is the number of cards in the backup, or -1 when unknown.
	Cards int `json:"cards"`
}

// BackupName returns the backup identifier for a backup taken at t.
// Names always encode the UTC minute, whatever the location of t.
func BackupName(t time.Time) string {
	return backupPrefix + t.UTC().Format(backupTimeLayout) + backupSuffix
}

// ParseBackupName validates name and returns the UTC time encoded in it.
func ParseBackupName(name string) (time.Time, error) {
	if !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupSuffix) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBackupName, name)
	}

	stamp := strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupSuffix)
	t, err := time.Parse(backupTimeLayout, stamp)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBackupName, name)
	}
	return t, nil
}

// SortBackups orders backups lexicographically descending by name, which
// is newest first given the fixed-width timestamp.
func SortBackups(backups []BackupInfo) {
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Name > backups[j].Name
	})
}
