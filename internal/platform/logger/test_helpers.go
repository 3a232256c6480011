package logger

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
)

// TestLogBuffer captures JSON log lines written by a test logger. It is safe
// for concurrent writers.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything written so far.
func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Reset drops captured output.
func (b *TestLogBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// GetLogEntries decodes one JSON object per non-blank line.
func (b *TestLogBuffer) GetLogEntries() ([]map[string]any, error) {
	sc := bufio.NewScanner(bytes.NewReader([]byte(b.String())))
	var entries []map[string]any
	for n := 1; sc.Scan(); n++ {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		entry := map[string]any{}
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("log line %d: %w", n, err)
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// FindEntry returns the first entry whose message is msg.
func (b *TestLogBuffer) FindEntry(msg string) (map[string]any, bool) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, false
	}
	for _, e := range entries {
		if e[slog.MessageKey] == msg {
			return e, true
		}
	}
	return nil, false
}

// NewTestLogger returns a debug-level JSON logger that writes into a new
// buffer without touching the default logger.
func NewTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()
	buf := &TestLogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
