package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
)

const (
	// DeckFileName is the name of the active deck file inside the data directory.
	DeckFileName = "deck.json"

	// BackupDirName is the directory holding backups inside the data directory.
	BackupDirName = "backups"

	dirPerm  = 0o750
	filePerm = 0o640
)

// FileStore keeps the deck and its backups as JSON files under one directory.
type FileStore struct {
	dataDir string
	logger  *slog.Logger
}

// Compile-time checks to ensure FileStore implements both store interfaces.
var (
	_ store.DeckStore   = (*FileStore)(nil)
	_ store.BackupStore = (*FileStore)(nil)
)

// New creates a FileStore rooted at dataDir. The directory is created lazily
// on the first write.
func New(dataDir string, logger *slog.Logger) *FileStore {
	if dataDir == "" {
		panic("dataDir cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dataDir: dataDir,
		logger:  logger.With(slog.String("component", "file_store")),
	}
}

// DeckPath returns the path of the active deck file.
func (s *FileStore) DeckPath() string {
	return filepath.Join(s.dataDir, DeckFileName)
}

// BackupDir returns the directory backups are written to.
func (s *FileStore) BackupDir() string {
	return filepath.Join(s.dataDir, BackupDirName)
}

// Load implements store.DeckStore.
func (s *FileStore) Load(ctx context.Context) (*domain.Deck, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.DeckPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, store.ErrDeckNotFound
		}
		return nil, store.NewStoreError("deck", "load", "failed to read deck file", err)
	}

	deck, err := store.DecodeDeck(data)
	if err != nil {
		return nil, store.NewStoreError("deck", "load", "failed to decode deck file", err)
	}

	s.logger.Debug("deck loaded",
		slog.String("path", s.DeckPath()),
		slog.Int("cards", len(deck.Cards)))
	return deck, nil
}

// Save implements store.DeckStore.
func (s *FileStore) Save(ctx context.Context, deck *domain.Deck) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := store.EncodeDeck(deck)
	if err != nil {
		return store.NewStoreError("deck", "save", "failed to encode deck", err)
	}

	if err := writeFileAtomic(s.DeckPath(), data); err != nil {
		return store.NewStoreError("deck", "save", "failed to write deck file", err)
	}

	s.logger.Debug("deck saved", slog.String("path", s.DeckPath()))
	return nil
}

// writeFileAtomic writes data to a temporary file in the destination
// directory, syncs it, and renames it over path.
func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}
