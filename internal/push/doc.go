// Package push maintains the websocket channel that carries backend progress
// events to the console.
//
// The channel dials /ws/progress with the client session identifier in the
// query string, answers the backend's text ping with a text pong, and decodes
// every JSON frame into an Event. Events addressed to a different session are
// dropped before dispatch. Handlers run in registration order; a panicking
// handler never takes down the read loop.
//
// A dropped connection schedules reconnect attempts with linearly growing
// delay through the injected Scheduler. A deliberate Disconnect suppresses
// reconnection.
package push
