package console

import (
	"io"
	"sync"
)

// LockedWriter serializes output from command handlers, reload timers and the
// watcher, which all share one terminal.
type LockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

// NewLockedWriter wraps a writer for shared use.
func NewLockedWriter(w io.Writer) *LockedWriter {
	return &LockedWriter{w: w}
}

func (l *LockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Unwrap exposes the underlying writer for terminal detection.
func (l *LockedWriter) Unwrap() io.Writer {
	return l.w
}
