// Package session owns the console's authoritative client-side state.
//
// The Store keeps pagination cursors, active filters, selection sets, and the
// in-flight task registry for every screen, persists a snapshot to SQLite on
// each mutation, and fans changes out to per-key listeners in registration
// order. Selection sets and task registries serialize as order-preserving
// pair lists and rebuild into maps on load; a missing or corrupt snapshot
// degrades to defaults instead of failing.
//
// The Store also carries the stable session identifier used to filter push
// events, and the timer registry that makes every scheduled callback
// reachable for cancellation when a screen is torn down.
//
// All other components mutate console state exclusively through this package
// so persistence and listener notification stay synchronized with every
// change.
package session
