package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Backend contains connection settings for the Asset Training System API.
type Backend struct {
	// URL is the base URL of the backend REST API, e.g. "http://127.0.0.1:8000".
	URL string `toml:"url"`
	// WebsocketURL is the push channel endpoint. When empty it is derived
	// from URL by swapping the scheme and appending /ws/progress.
	WebsocketURL string `toml:"websocket_url"`
	// RequestTimeout bounds individual API calls, in seconds.
	RequestTimeout int `toml:"request_timeout"`
}

// Paths contains directory configuration for session state and logs.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Push contains timing configuration for the notification channel.
type Push struct {
	// HeartbeatInterval is the ping cadence in seconds.
	HeartbeatInterval int `toml:"heartbeat_interval"`
	// ReconnectBaseDelay is the backoff base in milliseconds; attempt n
	// waits n * base.
	ReconnectBaseDelay int `toml:"reconnect_base_delay"`
	// ReconnectMaxAttempts caps reconnection attempts after an unclean close.
	ReconnectMaxAttempts int `toml:"reconnect_max_attempts"`
}

// Refresh contains post-mutation auto-refresh delays in milliseconds.
type Refresh struct {
	MutationDelay int `toml:"mutation_delay"`
	TrainingDelay int `toml:"training_delay"`
}

// Console contains presentation settings.
type Console struct {
	PageSize int `toml:"page_size"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for frameops.
//
// Configuration sections by subsystem:
//   - Backend: REST and websocket endpoints of the training pipeline
//   - Paths: session database and log directories
//   - Push: notification channel heartbeat and reconnect timing
//   - Refresh: post-mutation screen refresh delays
//   - Console: pagination and table presentation
//   - Logging: log format and level
type Config struct {
	Backend Backend `toml:"backend"`
	Paths   Paths   `toml:"paths"`
	Push    Push    `toml:"push"`
	Refresh Refresh `toml:"refresh"`
	Console Console `toml:"console"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/frameops/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized. A missing file yields defaults.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("frameops.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the session store and logger need.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
