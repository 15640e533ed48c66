package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"frameops/internal/config"
)

func TestDefaultDerivesWebsocketURL(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation to fail before normalization fills websocket url")
	}

	loaded, _, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if loaded.Backend.WebsocketURL != "ws://127.0.0.1:8000/ws/progress" {
		t.Fatalf("unexpected websocket url: %q", loaded.Backend.WebsocketURL)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"[backend]",
		`url = "https://pipeline.example.com/"`,
		"",
		"[paths]",
		`data_dir = "` + filepath.Join(dir, "data") + `"`,
		`log_dir = "` + filepath.Join(dir, "logs") + `"`,
		"",
		"[logging]",
		`format = "JSON"`,
		`level = "Debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %q to be used, got %q exists=%v", path, resolved, exists)
	}
	if cfg.Backend.URL != "https://pipeline.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Backend.URL)
	}
	if cfg.Backend.WebsocketURL != "wss://pipeline.example.com/ws/progress" {
		t.Fatalf("unexpected websocket url: %q", cfg.Backend.WebsocketURL)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging settings, got %+v", cfg.Logging)
	}
	if cfg.Push.ReconnectBaseDelay != 2000 || cfg.Push.ReconnectMaxAttempts != 5 {
		t.Fatalf("expected reconnect defaults, got %+v", cfg.Push)
	}
}

func TestLoadRejectsBadScheme(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[backend]\nurl = \"ftp://example.com\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected scheme validation error")
	}
}

func TestEnsureDirectories(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DataDir = filepath.Join(dir, "data")
	cfg.Paths.LogDir = filepath.Join(dir, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, p := range []string{cfg.Paths.DataDir, cfg.Paths.LogDir} {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q, err=%v", p, err)
		}
	}
}
