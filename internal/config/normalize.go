package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeBackend(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizePush()
	c.normalizeRefresh()
	c.normalizeConsole()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeBackend() error {
	if c.Backend.URL == "" {
		if value, ok := os.LookupEnv("FRAMEOPS_BACKEND_URL"); ok {
			c.Backend.URL = value
		}
	}
	c.Backend.URL = strings.TrimRight(strings.TrimSpace(c.Backend.URL), "/")
	if c.Backend.URL == "" {
		c.Backend.URL = defaultBackendURL
	}

	c.Backend.WebsocketURL = strings.TrimSpace(c.Backend.WebsocketURL)
	if c.Backend.WebsocketURL == "" {
		derived, err := deriveWebsocketURL(c.Backend.URL)
		if err != nil {
			return fmt.Errorf("backend.url: %w", err)
		}
		c.Backend.WebsocketURL = derived
	}

	if c.Backend.RequestTimeout <= 0 {
		c.Backend.RequestTimeout = defaultRequestTimeout
	}
	return nil
}

// deriveWebsocketURL maps the REST base URL onto the backend's /ws/progress
// endpoint, swapping http(s) for ws(s).
func deriveWebsocketURL(base string) (string, error) {
	parsed, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch parsed.Scheme {
	case "http":
		parsed.Scheme = "ws"
	case "https":
		parsed.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
	}
	parsed.Path = strings.TrimRight(parsed.Path, "/") + "/ws/progress"
	return parsed.String(), nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizePush() {
	if c.Push.HeartbeatInterval <= 0 {
		c.Push.HeartbeatInterval = defaultHeartbeatInterval
	}
	if c.Push.ReconnectBaseDelay <= 0 {
		c.Push.ReconnectBaseDelay = defaultReconnectBaseDelay
	}
	if c.Push.ReconnectMaxAttempts <= 0 {
		c.Push.ReconnectMaxAttempts = defaultReconnectMaxAttempts
	}
}

func (c *Config) normalizeRefresh() {
	if c.Refresh.MutationDelay <= 0 {
		c.Refresh.MutationDelay = defaultMutationDelay
	}
	if c.Refresh.TrainingDelay <= 0 {
		c.Refresh.TrainingDelay = defaultTrainingDelay
	}
}

func (c *Config) normalizeConsole() {
	if c.Console.PageSize <= 0 {
		c.Console.PageSize = defaultPageSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
