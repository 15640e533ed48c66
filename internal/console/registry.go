package console

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"frameops/internal/logging"
	"frameops/internal/session"
)

// Screen is one operator view. Reload fetches fresh data and renders it.
type Screen interface {
	Name() string
	Reload(ctx context.Context) error
}

// Registry tracks registered screens and which one is active. It satisfies
// the gateway's refresh hook: only the active screen reloads, after the delay
// the rule table asked for, through the store's timer registry.
type Registry struct {
	store *session.Store
	log   *slog.Logger

	mu      sync.Mutex
	screens map[string]Screen
}

// NewRegistry builds an empty registry bound to the session store.
func NewRegistry(store *session.Store, log *slog.Logger) *Registry {
	return &Registry{
		store:   store,
		log:     logging.OrNop(log),
		screens: make(map[string]Screen),
	}
}

// Register adds a screen under its own name.
func (r *Registry) Register(screen Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.screens[screen.Name()] = screen
}

// Active returns the active screen name recorded in the session.
func (r *Registry) Active() string {
	name, _ := r.store.Get(session.KeyActiveScreen).(string)
	return name
}

// Activate makes a screen current. Pending reloads scheduled for the previous
// screen are cancelled along with every other polling timer.
func (r *Registry) Activate(name string) error {
	r.mu.Lock()
	_, known := r.screens[name]
	r.mu.Unlock()
	if !known {
		return fmt.Errorf("console: unknown screen %q", name)
	}
	if cancelled := r.store.ClearPolling(); cancelled > 0 {
		r.log.Debug("cancelled pending reloads", "count", cancelled)
	}
	return r.store.Set(session.KeyActiveScreen, name)
}

// Reload runs a screen's reload immediately.
func (r *Registry) Reload(ctx context.Context, name string) error {
	r.mu.Lock()
	screen, ok := r.screens[name]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("console: unknown screen %q", name)
	}
	return screen.Reload(ctx)
}

// ScheduleReload queues a delayed reload for whichever of the named screens
// is currently active. Inactive screens fetch fresh data anyway the next time
// they activate, so scheduling them would only waste backend round trips.
func (r *Registry) ScheduleReload(screens []string, delay time.Duration) {
	active := r.Active()
	if active == "" {
		return
	}
	for _, name := range screens {
		if name != active {
			continue
		}
		r.mu.Lock()
		screen, ok := r.screens[name]
		r.mu.Unlock()
		if !ok {
			return
		}
		r.store.After("refresh."+name, delay, func() {
			if err := screen.Reload(context.Background()); err != nil {
				r.log.Warn("screen reload failed", "screen", name, "error", err)
			}
		})
		return
	}
}
