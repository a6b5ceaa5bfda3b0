// Package logging constructs the application's slog loggers. Two output
// formats are supported: a compact console format (timestamp, level,
// component, message, key=value attrs) and standard JSON.
package logging
