//go:build integration

// Package testdb provides helpers for tests that run against a real
// PostgreSQL database.
//
// Tests using it are compiled only with the integration build tag and are
// skipped unless SCRY_TEST_DATABASE_URL points at a disposable database.
// Open migrates the schema and empties the deck tables before and after the
// test, so tests sharing a database must not run in parallel.
//
// # Basic Usage
//
//	func TestSomething(t *testing.T) {
//		db := testdb.Open(t)
//		s := postgres.NewPostgresDeckStore(db, nil)
//		...
//	}
package testdb
