package events

import (
	"context"
	"log/slog"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// InMemoryEventEmitter dispatches review events synchronously to its
// handlers, in registration order.
type InMemoryEventEmitter struct {
	mu       sync.RWMutex
	handlers []EventHandler
	logger   *slog.Logger
}

var _ EventEmitter = (*InMemoryEventEmitter)(nil)

// NewInMemoryEventEmitter creates an emitter with no handlers.
func NewInMemoryEventEmitter(l *slog.Logger) *InMemoryEventEmitter {
	if l == nil {
		l = slog.Default()
	}
	return &InMemoryEventEmitter{
		logger: l.With(slog.String("component", "review_event_emitter")),
	}
}

// RegisterHandler appends handlers to the dispatch list.
func (e *InMemoryEventEmitter) RegisterHandler(handlers ...EventHandler) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.handlers = append(e.handlers, handlers...)
	e.logger.Debug("event handlers registered", slog.Int("handler_count", len(e.handlers)))
}

// EmitEvent hands event to every handler. A failing handler does not stop
// the others; the first error is returned.
func (e *InMemoryEventEmitter) EmitEvent(ctx context.Context, event *ReviewEvent) error {
	e.mu.RLock()
	handlers := append([]EventHandler(nil), e.handlers...)
	e.mu.RUnlock()

	var firstErr error
	for i, h := range handlers {
		err := h.HandleEvent(ctx, event)
		if err == nil {
			continue
		}
		logger.FromContextOrDefault(ctx, e.logger).Error("review event handler failed",
			slog.Int("handler_index", i),
			slog.String("event_id", event.ID.String()),
			slog.String("event_type", event.Type),
			slog.String("session_id", event.SessionID.String()),
			slog.String("error", err.Error()))
		if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
