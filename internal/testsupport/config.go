package testsupport

import (
	"path/filepath"
	"testing"

	"frameops/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Backend.WebsocketURL = "ws://127.0.0.1:8000/ws/progress"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithBackendURL points the config at a test server.
func WithBackendURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Backend.URL = url
	}
}
