package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// LogHandler writes every event as a structured log line. The logger on the
// context wins over the one given at construction.
type LogHandler struct {
	logger *slog.Logger
}

// NewLogHandler creates a LogHandler.
func NewLogHandler(l *slog.Logger) *LogHandler {
	if l == nil {
		l = slog.Default()
	}
	return &LogHandler{logger: l.With(slog.String("component", "review_events"))}
}

// HandleEvent implements EventHandler.
func (h *LogHandler) HandleEvent(ctx context.Context, event *ReviewEvent) error {
	log := logger.FromContextOrDefault(ctx, h.logger)
	attrs := []any{
		slog.String("event_id", event.ID.String()),
		slog.String("session_id", event.SessionID.String()),
		slog.String("mode", event.Mode),
		slog.Int("position", event.Position),
		slog.Int("total", event.Total),
	}
	if event.Type == TypeWordGraded {
		attrs = append(attrs,
			slog.Int64("word_id", event.WordID),
			slog.String("direction", event.Direction),
			slog.Bool("correct", event.Correct),
			slog.Bool("overridden", event.Overridden),
			slog.Bool("scored", event.Scored),
			slog.Int("stage_index", event.StageIndex),
		)
	}
	log.DebugContext(ctx, event.Type, attrs...)
	return nil
}

// SessionTally is the running score of one session.
type SessionTally struct {
	Graded     int
	Correct    int
	Overridden int
	Completed  bool
}

// Tally counts graded answers per session.
type Tally struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*SessionTally
}

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{sessions: make(map[uuid.UUID]*SessionTally)}
}

// HandleEvent implements EventHandler.
func (t *Tally) HandleEvent(_ context.Context, event *ReviewEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sessions[event.SessionID]
	if !ok {
		s = &SessionTally{}
		t.sessions[event.SessionID] = s
	}
	switch event.Type {
	case TypeWordGraded:
		s.Graded++
		if event.Correct {
			s.Correct++
		}
		if event.Overridden {
			s.Overridden++
		}
	case TypeSessionCompleted:
		s.Completed = true
	}
	return nil
}

// Session returns a copy of the tally for id.
func (t *Tally) Session(id uuid.UUID) SessionTally {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.sessions[id]; ok {
		return *s
	}
	return SessionTally{}
}
