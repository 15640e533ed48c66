package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBackend(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Console.PageSize > 500 {
		return errors.New("console.page_size must be at most 500")
	}
	return nil
}

func (c *Config) validateBackend() error {
	parsed, err := url.Parse(c.Backend.URL)
	if err != nil {
		return fmt.Errorf("backend.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("backend.url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("backend.url must include a host")
	}

	ws, err := url.Parse(c.Backend.WebsocketURL)
	if err != nil {
		return fmt.Errorf("backend.websocket_url: %w", err)
	}
	if ws.Scheme != "ws" && ws.Scheme != "wss" {
		return fmt.Errorf("backend.websocket_url must use ws or wss, got %q", ws.Scheme)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
