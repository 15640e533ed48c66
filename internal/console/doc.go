// Package console renders the operator screens and routes refresh triggers
// to whichever screen is active.
//
// Each screen fetches its own data through the gateway and renders to a
// writer. The registry tracks the active screen in the session store and
// implements the gateway's refresh hook: after a mutation only the active
// screen reloads, through the store's timer registry so screen switches can
// cancel pending reloads. The watcher feeds websocket progress events into
// the same reload path.
package console
