// Package main hosts the frameops CLI entrypoint and command graph.
//
// The Cobra-based command tree surfaces the operator screens, frame
// selection, training job control and vector collection maintenance. Each
// invocation opens the persisted session, wires the gateway, selection
// engine and screen registry together, and tears everything down when the
// command returns. Long-lived behavior (progress events, auto-refresh)
// lives behind the watch command.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
