// Package lifecycle models the backend's job, frame, and video state machines
// on the client side.
//
// Training jobs move through pending, processing, completed, failed, paused,
// and rolled_back; the transition table here mirrors what the backend enforces
// so actions can be validated locally before a request is issued. Frame
// statuses gate selection-set membership: only extracted and selected frames
// may be targeted by bulk actions.
//
// The package also owns the client-observed rollback protocol: a cancellable
// polling wait with a fixed cadence and attempt cap.
package lifecycle
