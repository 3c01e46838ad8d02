// Package kvstore implements the deck and backup stores on an embedded
// BadgerDB database.
//
// The active deck lives under the "deck" key and each backup under
// "backup/<name>", where name follows the usual backup naming scheme.
// Values are the same JSON documents the file store writes, so a deck can
// move between backends through export and import.
package kvstore
