// Package service contains the application layer that sits between the
// domain model and storage.
//
// DeckRepository keeps the active deck in memory as an ordered list of
// cards and moves it to and from a store.DeckStore and store.BackupStore.
// It does not persist implicitly: callers mutate the in-memory deck and call
// Save afterwards. Decoded import and backup payloads are validated in full
// before the in-memory deck is replaced, so a failed import never leaves a
// partially replaced deck behind.
//
// The study engine in the study subpackage builds on DeckRepository and
// serializes access to it; DeckRepository itself is not safe for concurrent use.
package service
