// Package domain contains the core entities of the study tool: cards, their
// ratings, decks and the statistics derived from them. It is independent of
// any storage backend or user interface.
package domain
