package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// LoggerConfig holds the settings needed to build the application logger.
type LoggerConfig struct {
	// Level is one of debug, info, warn, error (case-insensitive).
	Level string
	// Format is "json" (default) or "text".
	Format string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// ParseLevel maps a configured level name to a slog.Level.
// The second result is false when the name is not recognized.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Setup initializes and configures the application's logging system based on
// the provided configuration. It creates a structured logger with the
// appropriate level and sets it as the default logger for the application.
func Setup(cfg LoggerConfig) (*slog.Logger, error) {
	level, ok := ParseLevel(cfg.Level)
	if !ok {
		// Create a temporary logger to output the warning
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", cfg.Level,
			"default_level", "info")
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "text") {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	logger := slog.New(handler)

	// Set this logger as the default for the application
	// This allows using the slog package functions directly (slog.Info, slog.Error, etc.)
	slog.SetDefault(logger)

	return logger, nil
}
