// Package store defines the persistence contracts for decks and backups,
// the JSON deck codec shared by every backend, and the errors backends
// report. Backends live under internal/platform.
package store
