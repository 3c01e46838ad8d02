//go:build integration

package testdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/phrazzld/scry-deck/internal/platform/postgres"
	"github.com/stretchr/testify/require"
)

// EnvTestDatabaseURL names the variable holding the test database URL.
const EnvTestDatabaseURL = "SCRY_TEST_DATABASE_URL"

// TestTimeout defines a default timeout for test database operations.
const TestTimeout = 10 * time.Second

// GetTestDatabaseURL returns the database URL for tests, or "".
func GetTestDatabaseURL() string {
	return os.Getenv(EnvTestDatabaseURL)
}

// IsIntegrationTestEnvironment reports whether a test database is configured.
func IsIntegrationTestEnvironment() bool {
	return GetTestDatabaseURL() != ""
}

// SkipIfNoDatabase skips the test when no test database is configured.
func SkipIfNoDatabase(t *testing.T) {
	t.Helper()
	if !IsIntegrationTestEnvironment() {
		t.Skipf("%s not set, skipping database test", EnvTestDatabaseURL)
	}
}

// Open connects to the test database, applies migrations and empties the deck
// tables. The connection is closed and the tables emptied again on cleanup.
func Open(t *testing.T) *sql.DB {
	t.Helper()
	SkipIfNoDatabase(t)

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	db, err := postgres.Open(ctx, GetTestDatabaseURL())
	require.NoError(t, err, "Failed to connect to test database")

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, postgres.Migrate(ctx, db, logger), "Failed to run migrations")

	ResetTables(t, db)
	t.Cleanup(func() {
		ResetTables(t, db)
		_ = db.Close()
	})
	return db
}

// ResetTables removes every deck and backup row.
func ResetTables(t *testing.T, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), TestTimeout)
	defer cancel()

	_, err := db.ExecContext(ctx, `TRUNCATE decks, deck_backups`)
	require.NoError(t, err, "Failed to truncate deck tables")
}
