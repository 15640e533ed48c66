package lifecycle

import (
	"context"
	"log/slog"
	"time"
)

// Rollback polling contract: one probe per second, thirty probes, early exit
// once rolled_back is observed. The cap is not a failure; the job may still
// be unwinding server-side.
const (
	DefaultRollbackInterval = time.Second
	DefaultRollbackAttempts = 30
)

// RollbackOutcome describes how a rollback wait ended.
type RollbackOutcome int

const (
	// RollbackConfirmed means the job reached rolled_back within the cap.
	RollbackConfirmed RollbackOutcome = iota
	// RollbackStillRunning means the attempt cap elapsed without observing
	// rolled_back; the caller should tell the user to refresh later.
	RollbackStillRunning
	// RollbackCanceled means the surrounding context was canceled.
	RollbackCanceled
)

// RollbackWait configures WaitRollback. Zero values fall back to the
// protocol defaults.
type RollbackWait struct {
	Interval time.Duration
	Attempts int
	Log      *slog.Logger
}

// WaitRollback polls fetch until the job reports rolled_back, the attempt cap
// elapses, or ctx is canceled. Fetch failures are logged and treated as "try
// again next tick", never as fatal.
func WaitRollback(ctx context.Context, wait RollbackWait, fetch func(context.Context) (JobStatus, error)) (RollbackOutcome, error) {
	interval := wait.Interval
	if interval <= 0 {
		interval = DefaultRollbackInterval
	}
	attempts := wait.Attempts
	if attempts <= 0 {
		attempts = DefaultRollbackAttempts
	}
	log := wait.Log
	if log == nil {
		log = slog.Default()
	}

	// The zero timer makes the first probe immediate.
	timer := time.NewTimer(0)
	defer timer.Stop()
	for attempt := 1; attempt <= attempts; attempt++ {
		select {
		case <-ctx.Done():
			return RollbackCanceled, ctx.Err()
		case <-timer.C:
		}

		status, err := fetch(ctx)
		if err != nil {
			log.Warn("rollback status probe failed", "attempt", attempt, "error", err)
		} else if status == JobRolledBack {
			return RollbackConfirmed, nil
		}

		timer.Reset(interval)
	}

	return RollbackStillRunning, nil
}
