package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"frameops/internal/config"
)

// Slot names inside the session database. The snapshot and the session
// identifier are deliberately separate so wiping state keeps identity.
const (
	slotState     = "state"
	slotSessionID = "session_id"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// ErrLocked is returned when another frameops process owns the session data.
var ErrLocked = errors.New("session database is locked by another process")

// kvStore persists named slots in SQLite, guarded by a file lock so two
// console processes cannot interleave snapshot writes.
type kvStore struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

func openKV(cfg *config.Config) (*kvStore, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "session.lock")
	lock := flock.New(lockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "session.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &kvStore{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return store, nil
}

func (k *kvStore) initSchema(ctx context.Context) error {
	const schema = `CREATE TABLE IF NOT EXISTS slots (
        key TEXT PRIMARY KEY,
        value TEXT NOT NULL,
        updated_at TEXT NOT NULL
    )`
	if _, err := k.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("init session schema: %w", err)
	}
	return nil
}

// Read returns the raw slot value and whether it exists.
func (k *kvStore) Read(ctx context.Context, slot string) (string, bool, error) {
	var value string
	err := k.db.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, slot).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read slot %q: %w", slot, err)
	}
	return value, true, nil
}

// Write upserts a slot value, retrying on SQLITE_BUSY.
func (k *kvStore) Write(ctx context.Context, slot, value string) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	err := retryOnBusy(ctx, func() error {
		_, execErr := k.db.ExecContext(ctx,
			`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, ?)
             ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			slot, value, timestamp)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("write slot %q: %w", slot, err)
	}
	return nil
}

// Delete removes a slot. Used by tests to simulate persistence wipes.
func (k *kvStore) Delete(ctx context.Context, slot string) error {
	return retryOnBusy(ctx, func() error {
		_, err := k.db.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, slot)
		return err
	})
}

func (k *kvStore) Close() error {
	if k == nil {
		return nil
	}
	var firstErr error
	if k.db != nil {
		firstErr = k.db.Close()
	}
	if k.lock != nil {
		if err := k.lock.Unlock(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}
