package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"frameops/internal/config"
	"frameops/internal/logging"
)

// Listener observes changes to a single session key. The value passed is the
// key's post-mutation value as returned by Get.
type Listener func(value any)

type listenerEntry struct {
	id int
	fn Listener
}

// Store is the authoritative client-side session state. All mutations go
// through Set/Update or the typed helpers so persistence and listener
// notification stay synchronized with every change.
type Store struct {
	log *slog.Logger

	mu        sync.Mutex
	state     State
	kv        *kvStore
	sessionID string

	listeners      map[Key][]listenerEntry
	nextListenerID int

	timers      map[int64]*TimerHandle
	nextTimerID int64
}

// Open restores the session from durable storage, falling back to in-memory
// defaults when the database is unavailable or the snapshot is corrupt.
// Only a second live process holding the lock is a hard error.
func Open(cfg *config.Config, log *slog.Logger) (*Store, error) {
	log = logging.OrNop(log)
	store := &Store{
		log:       log,
		state:     Defaults(),
		listeners: make(map[Key][]listenerEntry),
		timers:    make(map[int64]*TimerHandle),
	}

	ctx := context.Background()

	kv, err := openKV(cfg)
	if err != nil {
		if errors.Is(err, ErrLocked) {
			return nil, err
		}
		log.Warn("session persistence unavailable, running in memory", "error", err)
	} else {
		store.kv = kv
	}

	if store.kv != nil {
		raw, ok, readErr := store.kv.Read(ctx, slotState)
		switch {
		case readErr != nil:
			log.Warn("session snapshot unreadable, using defaults", "error", readErr)
		case ok:
			state, decodeErr := decodeState([]byte(raw))
			if decodeErr != nil {
				log.Warn("session snapshot corrupt, using defaults", "error", decodeErr)
			}
			store.state = state
		}
	}

	id, err := loadSessionID(ctx, store.kv)
	if err != nil {
		log.Warn("session id slot unavailable, using process-local id", "error", err)
		id = localSessionID()
	}
	store.sessionID = id

	return store, nil
}

// Close cancels every registered timer and releases the database and its lock.
func (s *Store) Close() error {
	s.ClearPolling()
	s.mu.Lock()
	kv := s.kv
	s.kv = nil
	s.mu.Unlock()
	return kv.Close()
}

// SessionID returns the stable session identifier. It never changes for the
// life of the process.
func (s *Store) SessionID() string {
	return s.sessionID
}

// Get returns the current value for a key. Unknown keys return nil.
func (s *Store) Get(key Key) any {
	s.mu.Lock()
	defer s.mu.Unlock()
	value, err := s.state.value(key)
	if err != nil {
		s.log.Warn("session get for unknown key", "key", string(key))
		return nil
	}
	return value
}

// Snapshot returns a deep copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Set assigns one scalar key, persists, and notifies that key's listeners.
func (s *Store) Set(key Key, value any) error {
	return s.Update(map[Key]any{key: value})
}

// Update assigns several keys as one batch: a single persistence write and
// one notification per changed key, delivered in canonical key order. A bad
// key or value rejects the whole batch; no key changes.
func (s *Store) Update(values map[Key]any) error {
	s.mu.Lock()
	next := s.state.clone()
	for key, value := range values {
		if err := next.assign(key, value); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	s.state = next
	s.persistLocked()
	notify := s.collectNotificationsLocked(keysOf(values))
	s.mu.Unlock()

	s.dispatch(notify)
	return nil
}

// On registers a listener for a key and returns a token for Off. Listeners
// fire in registration order.
func (s *Store) On(key Key, fn Listener) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextListenerID++
	id := s.nextListenerID
	s.listeners[key] = append(s.listeners[key], listenerEntry{id: id, fn: fn})
	return id
}

// Off removes a previously registered listener.
func (s *Store) Off(key Key, id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := s.listeners[key]
	for i, entry := range entries {
		if entry.id == id {
			s.listeners[key] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// mutate runs fn against the state under the lock, persists once, and
// notifies listeners for every key fn reports as changed.
func (s *Store) mutate(fn func(state *State) []Key) {
	s.mu.Lock()
	changed := fn(&s.state)
	if len(changed) == 0 {
		s.mu.Unlock()
		return
	}
	s.persistLocked()
	notify := s.collectNotificationsLocked(changed)
	s.mu.Unlock()

	s.dispatch(notify)
}

type notification struct {
	key     Key
	value   any
	entries []listenerEntry
}

func (s *Store) collectNotificationsLocked(changed []Key) []notification {
	changedSet := make(map[Key]struct{}, len(changed))
	for _, key := range changed {
		changedSet[key] = struct{}{}
	}

	var out []notification
	for _, key := range allKeys {
		if _, ok := changedSet[key]; !ok {
			continue
		}
		entries := s.listeners[key]
		if len(entries) == 0 {
			continue
		}
		value, err := s.state.value(key)
		if err != nil {
			continue
		}
		cp := make([]listenerEntry, len(entries))
		copy(cp, entries)
		out = append(out, notification{key: key, value: value, entries: cp})
	}
	return out
}

// dispatch invokes listeners outside the lock. A panic in one listener is
// logged and does not stop the remaining listeners; the mutation has already
// taken effect either way.
func (s *Store) dispatch(notifications []notification) {
	for _, n := range notifications {
		for _, entry := range n.entries {
			s.invoke(n.key, entry, n.value)
		}
	}
}

func (s *Store) invoke(key Key, entry listenerEntry, value any) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("session listener panicked", "key", string(key), "panic", r)
		}
	}()
	entry.fn(value)
}

// persistLocked serializes the snapshot into its slot. Persistence failures
// degrade to logged warnings; in-memory state remains authoritative.
func (s *Store) persistLocked() {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(&s.state)
	if err != nil {
		s.log.Error("session snapshot marshal failed", "error", err)
		return
	}
	if err := s.kv.Write(context.Background(), slotState, string(data)); err != nil {
		s.log.Warn("session snapshot write failed", "error", err)
	}
}

func keysOf(values map[Key]any) []Key {
	keys := make([]Key, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	return keys
}
