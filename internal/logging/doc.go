// Package logging constructs the slog loggers used across frameops.
//
// Console output renders through tint for readable interactive sessions;
// json output uses the stock slog JSON handler for machine consumption.
// Components receive a *slog.Logger at construction time and must tolerate
// nil by falling back to Nop.
package logging
