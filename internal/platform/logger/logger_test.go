package logger_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		level slog.Level
		ok    bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			level, ok := logger.ParseLevel(tt.input)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetup_JSONLevelFiltering(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &logger.TestLogBuffer{}
	l, err := logger.Setup(logger.LoggerConfig{Level: "warn", Output: buf})
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("hidden")
	slog.Warn("visible", "key", "value")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
}

func TestSetup_TextFormat(t *testing.T) {
	original := slog.Default()
	defer slog.SetDefault(original)

	buf := &logger.TestLogBuffer{}
	l, err := logger.Setup(logger.LoggerConfig{Level: "debug", Format: "text", Output: buf})
	require.NoError(t, err)

	l.Debug("hello", "who", "world")
	assert.True(t, strings.Contains(buf.String(), "msg=hello"), buf.String())
}

func TestContextLogger(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	ctx := logger.WithLogger(context.Background(), l.With("session_id", "abc"))

	logger.FromContext(ctx).Info("from context")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "abc", entries[0]["session_id"])

	fallback, _ := logger.NewTestLogger(t)
	assert.Same(t, fallback, logger.FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, logger.FromContextOrDefault(context.Background(), nil))
}
