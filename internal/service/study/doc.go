// Package study implements the study session engine.
//
// An Engine owns the session state for one deck: the lesson filter, the
// due-only mode, the card currently presented, whether its answer is shown,
// and which cards have been seen in the current cycle. Every operation runs
// under a single mutex and leaves the current card, the statistics and the
// persisted deck consistent before it returns. Observers are notified through
// an events.EventEmitter after the lock is released, and read the new state
// with Snapshot.
//
// In all-cards mode the engine walks the filtered pool in cycles: every card
// is presented once before any card repeats, and within a cycle the unseen
// cards are drawn with weights favouring weakly rated cards. In due-only mode
// every due card is a candidate on every draw.
package study
