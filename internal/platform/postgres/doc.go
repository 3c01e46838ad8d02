// Package postgres provides the PostgreSQL storage backend for the deck and
// its backups.
//
// The active deck is stored as a single JSONB document in the decks table
// and every backup as a row of deck_backups keyed by its backup name. Both
// use the same JSON encoding as the file backend, so a deck can move between
// backends through export and import unchanged.
//
// The schema is managed with goose from migrations embedded in the binary;
// call Migrate before using the stores against a fresh database.
package postgres
