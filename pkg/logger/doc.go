// Package logger provides a slog factory with environment presets and the
// attribute helpers used across the delivery core so log keys stay
// consistent between components.
package logger
