// Package events provides the notification mechanism through which the
// study engine tells observers that its published state has changed.
//
// The primary components are:
// - Event: a single notification, optionally naming the card it concerns
// - EventHandler: interface for components that react to events
// - EventEmitter: interface for components that publish events
// - InMemoryEventEmitter: synchronous fan-out to registered handlers
package events
