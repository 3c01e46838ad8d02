// Package filestore implements store.DeckStore and store.BackupStore on the
// local filesystem. The active deck lives in <dataDir>/deck.json and backups
// in <dataDir>/backups/, each written atomically through a temporary file
// that is synced and renamed into place.
package filestore
