// Package config loads, normalizes, and validates frameops configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and derives the websocket endpoint from the
// backend URL when one is not configured explicitly. The Config type
// centralizes every knob the console needs: backend endpoints, session data
// directories, push channel timing, and auto-refresh delays.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
