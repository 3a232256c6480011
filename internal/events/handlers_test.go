package events_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-vocab/internal/events"
	"github.com/phrazzld/scry-vocab/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHandler(t *testing.T) {
	l, buf := logger.NewTestLogger(t)
	handler := events.NewLogHandler(l)

	event := events.NewReviewEvent(events.TypeWordGraded, uuid.New(), "due", time.Now())
	event.WordID = 42
	event.Direction = "prompt-with-term"
	event.Correct = true
	event.Scored = true
	event.StageIndex = 3

	require.NoError(t, handler.HandleEvent(context.Background(), event))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, events.TypeWordGraded, entries[0]["msg"])
	assert.Equal(t, "review_events", entries[0]["component"])
	assert.Equal(t, float64(42), entries[0]["word_id"])
	assert.Equal(t, true, entries[0]["correct"])
	assert.Equal(t, event.SessionID.String(), entries[0]["session_id"])

	_, found := buf.FindEntry(events.TypeSessionCompleted)
	assert.False(t, found)
}

func TestTally(t *testing.T) {
	tally := events.NewTally()
	ctx := context.Background()
	sessionID := uuid.New()
	now := time.Now()

	grade := func(correct, overridden bool) {
		e := events.NewReviewEvent(events.TypeWordGraded, sessionID, "due", now)
		e.Correct = correct
		e.Overridden = overridden
		require.NoError(t, tally.HandleEvent(ctx, e))
	}

	grade(true, false)
	grade(false, false)
	grade(true, true)
	require.NoError(t, tally.HandleEvent(ctx, events.NewReviewEvent(events.TypeSessionCompleted, sessionID, "due", now)))

	got := tally.Session(sessionID)
	assert.Equal(t, events.SessionTally{Graded: 3, Correct: 2, Overridden: 1, Completed: true}, got)
	assert.Equal(t, events.SessionTally{}, tally.Session(uuid.New()))
}
