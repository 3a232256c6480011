package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/matcher"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
)

// Library is the part of the library service a session needs.
type Library interface {
	Snapshot() *domain.Library
	GradeWord(ctx context.Context, id int64, correct bool) (domain.Word, error)
	Params() *srs.Params
}

// AnswerMatcher decides whether an answer is accepted.
type AnswerMatcher interface {
	Matches(answer, expected string) bool
}

// State is the position of a session in its lifecycle.
type State int

const (
	StateIdle State = iota
	StatePresenting
	StateGraded
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePresenting:
		return "presenting"
	case StateGraded:
		return "graded"
	case StateComplete:
		return "complete"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Progress counts finished items against the queue length at start.
type Progress struct {
	Completed int
	Total     int
}

// Fraction is Completed/Total, or 0 for an empty run.
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Completed) / float64(p.Total)
}

// Prompt is what the user sees for the current item.
type Prompt struct {
	Shown      string
	GroupName  string
	StageLabel string
	Direction  domain.Direction
	Progress   Progress
}

// Outcome is the local grade of a submitted answer.
type Outcome struct {
	Correct  bool
	Answer   string
	Expected string
	Variants []string
}

// Session runs one review queue. It is safe for concurrent use, although a
// single caller is the normal case.
type Session struct {
	lib     Library
	builder *QueueBuilder
	matcher AnswerMatcher
	emitter events.EventEmitter
	logger  *slog.Logger
	now     func() time.Time

	mu        sync.Mutex
	id        uuid.UUID
	state     State
	mode      Mode
	groupID   int64
	queue     []Item
	current   *Item
	outcome   *Outcome
	lastGroup int64
	progress  Progress
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithMatcher replaces the default answer matcher.
func WithMatcher(m AnswerMatcher) SessionOption {
	return func(s *Session) { s.matcher = m }
}

// WithEmitter sends review events to e.
func WithEmitter(e events.EventEmitter) SessionOption {
	return func(s *Session) { s.emitter = e }
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) SessionOption {
	return func(s *Session) { s.logger = l }
}

// WithSessionClock replaces time.Now for event timestamps.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(s *Session) { s.now = now }
}

// NewSession creates an idle session over lib.
func NewSession(lib Library, builder *QueueBuilder, opts ...SessionOption) *Session {
	if lib == nil {
		panic("review: library cannot be nil")
	}
	if builder == nil {
		panic("review: queue builder cannot be nil")
	}
	s := &Session{
		lib:     lib,
		builder: builder,
		matcher: matcher.New(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With(slog.String("component", "review_session"))
	return s
}

// ID is the id of the current run. Each Start assigns a new one.
func (s *Session) ID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode returns the mode of the current run.
func (s *Session) Mode() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Progress returns completed and total item counts.
func (s *Session) Progress() Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

// Start builds a queue for mode from the current library and presents its
// first item. Any run in progress is discarded. groupID is only used by
// ModeGroupForced. When the queue would be empty the session goes back to
// idle and ErrNothingToReview is returned.
func (s *Session) Start(ctx context.Context, mode Mode, groupID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.start(ctx, mode, groupID)
}

func (s *Session) start(ctx context.Context, mode Mode, groupID int64) error {
	items, err := s.builder.Build(s.lib.Snapshot(), mode, groupID)
	if err != nil {
		s.reset()
		return err
	}

	s.id = uuid.New()
	s.mode = mode
	s.groupID = groupID
	s.queue = items
	s.outcome = nil
	s.progress = Progress{Total: len(items)}
	s.popNext()

	s.log(ctx).Info("review session started",
		slog.String("mode", string(mode)),
		slog.Int("total", len(items)))
	s.emit(ctx, s.newEvent(events.TypeSessionStarted))
	return nil
}

// Current returns the prompt for the item being shown.
func (s *Session) Current() (Prompt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Prompt{}, fmt.Errorf("%w: no current item in state %s", ErrInvalidTransition, s.state)
	}
	return Prompt{
		Shown:      s.current.Shown(),
		GroupName:  s.current.GroupName,
		StageLabel: s.lib.Params().Label(s.current.Word.StageIndex),
		Direction:  s.current.Direction,
		Progress:   s.progress,
	}, nil
}

// Submit checks answer against the current item. A blank answer is rejected
// with domain.ErrEmptyAnswer and the item stays on screen. The library is
// not touched until Continue or Override.
func (s *Session) Submit(ctx context.Context, answer string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePresenting {
		return Outcome{}, fmt.Errorf("%w: submit in state %s", ErrInvalidTransition, s.state)
	}
	if strings.TrimSpace(answer) == "" {
		return Outcome{}, fmt.Errorf("%w: %w", domain.ErrValidation, domain.ErrEmptyAnswer)
	}

	expected := s.current.Expected()
	out := Outcome{
		Correct:  s.matcher.Matches(answer, expected),
		Answer:   strings.TrimSpace(answer),
		Expected: expected,
		Variants: matcher.Variants(expected),
	}
	s.outcome = &out
	s.state = StateGraded

	s.log(ctx).Debug("answer submitted",
		slog.Int64("word_id", s.current.Word.ID),
		slog.Bool("correct", out.Correct))
	return out, nil
}

// Continue commits the pending grade, when the mode is scored, and moves to
// the next item. From StatePresenting it skips the current item ungraded.
// If the grade cannot be stored the session stays in StateGraded so the
// caller can retry.
func (s *Session) Continue(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state {
	case StateGraded:
		if err := s.commit(ctx, s.outcome.Correct, false); err != nil {
			return err
		}
	case StatePresenting:
		s.log(ctx).Debug("item skipped", slog.Int64("word_id", s.current.Word.ID))
	default:
		return fmt.Errorf("%w: continue in state %s", ErrInvalidTransition, s.state)
	}
	s.advance(ctx)
	return nil
}

// Override accepts the pending answer as correct and moves on.
func (s *Session) Override(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateGraded {
		return fmt.Errorf("%w: override in state %s", ErrInvalidTransition, s.state)
	}
	if err := s.commit(ctx, true, !s.outcome.Correct); err != nil {
		return err
	}
	s.advance(ctx)
	return nil
}

// Restart runs the same mode and group again with a fresh queue.
func (s *Session) Restart(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return fmt.Errorf("%w: restart in state %s", ErrInvalidTransition, s.state)
	}
	return s.start(ctx, s.mode, s.groupID)
}

// RepeatGroup starts a group-forced run over the group of the current item,
// or of the last item shown when the run is complete.
func (s *Session) RepeatGroup(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return fmt.Errorf("%w: repeat group in state %s", ErrInvalidTransition, s.state)
	}
	return s.start(ctx, ModeGroupForced, s.lastGroup)
}

// Close discards the queue and any pending grade.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Session) reset() {
	s.state = StateIdle
	s.queue = nil
	s.current = nil
	s.outcome = nil
	s.progress = Progress{}
}

func (s *Session) popNext() {
	if len(s.queue) == 0 {
		s.current = nil
		s.state = StateComplete
		return
	}
	item := s.queue[0]
	s.queue = s.queue[1:]
	s.current = &item
	s.lastGroup = item.Word.GroupID
	s.outcome = nil
	s.state = StatePresenting
}

func (s *Session) advance(ctx context.Context) {
	s.progress.Completed++
	s.popNext()
	if s.state == StateComplete {
		s.log(ctx).Info("review session completed",
			slog.Int("completed", s.progress.Completed))
		s.emit(ctx, s.newEvent(events.TypeSessionCompleted))
	}
}

// commit writes a grade for the current item. A word removed from the
// library since the queue was built is skipped.
func (s *Session) commit(ctx context.Context, correct, overridden bool) error {
	item := s.current
	ev := s.newEvent(events.TypeWordGraded)
	ev.WordID = item.Word.ID
	ev.Direction = item.Direction.String()
	ev.Correct = correct
	ev.Overridden = overridden
	ev.StageIndex = item.Word.StageIndex

	if s.mode.Scored() {
		graded, err := s.lib.GradeWord(ctx, item.Word.ID, correct)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			s.log(ctx).Warn("word no longer in library, grade dropped",
				slog.Int64("word_id", item.Word.ID))
			return nil
		case err != nil:
			s.log(ctx).Error("failed to store grade",
				slog.Int64("word_id", item.Word.ID),
				slog.String("error", err.Error()))
			return err
		}
		ev.Scored = true
		ev.StageIndex = graded.StageIndex
		ev.NextReviewAt = graded.NextReviewAt
	}

	s.emit(ctx, ev)
	return nil
}

func (s *Session) newEvent(typ string) *events.ReviewEvent {
	ev := events.NewReviewEvent(typ, s.id, string(s.mode), s.now())
	ev.Position = s.progress.Completed
	ev.Total = s.progress.Total
	return ev
}

func (s *Session) emit(ctx context.Context, ev *events.ReviewEvent) {
	if s.emitter == nil {
		return
	}
	if err := s.emitter.EmitEvent(ctx, ev); err != nil {
		s.log(ctx).Warn("review event handler failed",
			slog.String("event_type", ev.Type),
			slog.String("error", err.Error()))
	}
}

func (s *Session) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", s.id.String()))
}
