// Package logger provides structured logging with configurable log levels.
// It wraps the standard log/slog package: JSON output in prod, human-readable
// text everywhere else.
package logger
