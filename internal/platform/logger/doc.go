// Package logger provides structured logging functionality for the application.
//
// It utilizes Go's standard library log/slog package to implement structured logging
// with configurable log levels, and carries request-scoped loggers on contexts.
package logger
