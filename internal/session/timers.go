package session

import "time"

// TimerHandle is a named, cancellable delayed call registered with the Store.
// Every live handle is reachable through ClearPolling so no timer can fire
// after its owning screen is torn down.
type TimerHandle struct {
	id    int64
	name  string
	store *Store
	timer *time.Timer
}

// Name returns the label the timer was registered under.
func (h *TimerHandle) Name() string {
	if h == nil {
		return ""
	}
	return h.name
}

// Stop cancels the timer and removes it from the registry. It reports
// whether the call prevented the callback from running.
func (h *TimerHandle) Stop() bool {
	if h == nil {
		return false
	}
	h.store.dropTimer(h.id)
	return h.timer.Stop()
}

// After schedules fn after d and registers the handle for cancellation.
// The handle deregisters itself when the callback runs; a panicking callback
// is logged and contained.
func (s *Store) After(name string, d time.Duration, fn func()) *TimerHandle {
	s.mu.Lock()
	s.nextTimerID++
	handle := &TimerHandle{id: s.nextTimerID, name: name, store: s}
	handle.timer = time.AfterFunc(d, func() {
		s.dropTimer(handle.id)
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("timer callback panicked", "timer", name, "panic", r)
			}
		}()
		fn()
	})
	s.timers[handle.id] = handle
	s.mu.Unlock()
	return handle
}

// ClearPolling cancels and removes every registered timer, returning the
// number cleared.
func (s *Store) ClearPolling() int {
	s.mu.Lock()
	handles := make([]*TimerHandle, 0, len(s.timers))
	for _, handle := range s.timers {
		handles = append(handles, handle)
	}
	s.timers = make(map[int64]*TimerHandle)
	s.mu.Unlock()

	for _, handle := range handles {
		handle.timer.Stop()
	}
	return len(handles)
}

// ActiveTimers returns the number of registered, not yet fired timers.
func (s *Store) ActiveTimers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Store) dropTimer(id int64) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
}
