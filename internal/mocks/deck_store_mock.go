package mocks

import (
	"context"
	"time"

	"github.com/phrazzld/scry-deck/internal/domain"
	"github.com/phrazzld/scry-deck/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockDeckStore is a mock of store.DeckStore interface for use with testify/mock
type TestifyMockDeckStore struct {
	mock.Mock
}

// Load is a mock implementation of store.DeckStore.Load
func (m *TestifyMockDeckStore) Load(ctx context.Context) (*domain.Deck, error) {
	args := m.Called(ctx)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

// Save is a mock implementation of store.DeckStore.Save
func (m *TestifyMockDeckStore) Save(ctx context.Context, deck *domain.Deck) error {
	args := m.Called(ctx, deck)
	return args.Error(0)
}

// TestifyMockBackupStore is a mock of store.BackupStore interface for use with testify/mock
type TestifyMockBackupStore struct {
	mock.Mock
}

// ListBackups is a mock implementation of store.BackupStore.ListBackups
func (m *TestifyMockBackupStore) ListBackups(ctx context.Context) ([]store.BackupInfo, error) {
	args := m.Called(ctx)
	if backups, ok := args.Get(0).([]store.BackupInfo); ok {
		return backups, args.Error(1)
	}
	return nil, args.Error(1)
}

// CreateBackup is a mock implementation of store.BackupStore.CreateBackup
func (m *TestifyMockBackupStore) CreateBackup(
	ctx context.Context,
	deck *domain.Deck,
	at time.Time,
) (store.BackupInfo, error) {
	args := m.Called(ctx, deck, at)
	if info, ok := args.Get(0).(store.BackupInfo); ok {
		return info, args.Error(1)
	}
	return store.BackupInfo{}, args.Error(1)
}

// LoadBackup is a mock implementation of store.BackupStore.LoadBackup
func (m *TestifyMockBackupStore) LoadBackup(ctx context.Context, name string) (*domain.Deck, error) {
	args := m.Called(ctx, name)
	if deck, ok := args.Get(0).(*domain.Deck); ok {
		return deck, args.Error(1)
	}
	return nil, args.Error(1)
}

// DeleteBackup is a mock implementation of store.BackupStore.DeleteBackup
func (m *TestifyMockBackupStore) DeleteBackup(ctx context.Context, name string) error {
	args := m.Called(ctx, name)
	return args.Error(0)
}

// Compile-time checks
var (
	_ store.DeckStore   = (*TestifyMockDeckStore)(nil)
	_ store.BackupStore = (*TestifyMockBackupStore)(nil)
)
