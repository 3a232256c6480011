package review_test

import (
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/service/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func word(id, groupID int64, term, def string, stage int, next time.Time) domain.Word {
	return domain.Word{
		ID:           id,
		GroupID:      groupID,
		Term:         term,
		Definition:   def,
		StageIndex:   stage,
		NextReviewAt: next,
		CreatedAt:    testNow.Add(-48 * time.Hour),
	}
}

// sampleLibrary has two groups; words 11 and 21 are due at testNow.
func sampleLibrary() *domain.Library {
	return &domain.Library{Groups: []domain.Group{
		{ID: 1, Name: "Animals", Words: []domain.Word{
			word(11, 1, "cat", "кіт", 2, testNow.Add(-time.Hour)),
			word(12, 1, "dog", "пес", 1, testNow.Add(time.Hour)),
		}},
		{ID: 2, Name: "Verbs", Words: []domain.Word{
			word(21, 2, "to run", "бігти", 0, testNow),
			word(22, 2, "to go", "йти", 3, testNow.Add(24*time.Hour)),
		}},
	}}
}

func newBuilder(seed uint64, opts ...review.BuilderOption) *review.QueueBuilder {
	base := []review.BuilderOption{
		review.WithNow(func() time.Time { return testNow }),
		review.WithRand(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))),
	}
	return review.NewQueueBuilder(srs.NewDefaultParams(), append(base, opts...)...)
}

func ids(items []review.Item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.Word.ID
	}
	return out
}

func TestQueueBuilder_Build(t *testing.T) {
	tests := []struct {
		name    string
		mode    review.Mode
		groupID int64
		want    []int64
		wantErr error
	}{
		{name: "due selects words at or past their review time", mode: review.ModeDue, want: []int64{11, 21}},
		{name: "all keeps library order", mode: review.ModeAll, want: []int64{11, 12, 21, 22}},
		{name: "group forced ignores due time", mode: review.ModeGroupForced, groupID: 2, want: []int64{21, 22}},
		{name: "group forced with unknown group", mode: review.ModeGroupForced, groupID: 99, wantErr: domain.ErrNotFound},
		{name: "unknown mode", mode: review.Mode("sideways"), wantErr: review.ErrUnknownMode},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			items, err := newBuilder(1).Build(sampleLibrary(), tc.mode, tc.groupID)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(items))
		})
	}
}

func TestQueueBuilder_NothingToReview(t *testing.T) {
	lib := sampleLibrary()
	for gi := range lib.Groups {
		for wi := range lib.Groups[gi].Words {
			lib.Groups[gi].Words[wi].NextReviewAt = testNow.Add(time.Minute)
		}
	}

	_, err := newBuilder(1).Build(lib, review.ModeDue, 0)
	assert.ErrorIs(t, err, review.ErrNothingToReview)

	_, err = newBuilder(1).Build(domain.NewLibrary(), review.ModeShuffledAll, 0)
	assert.ErrorIs(t, err, review.ErrNothingToReview)

	empty := &domain.Library{Groups: []domain.Group{{ID: 5, Name: "Empty"}}}
	_, err = newBuilder(1).Build(empty, review.ModeGroupForced, 5)
	assert.ErrorIs(t, err, review.ErrNothingToReview)
}

func TestQueueBuilder_ItemsAreCopies(t *testing.T) {
	lib := sampleLibrary()
	items, err := newBuilder(1).Build(lib, review.ModeAll, 0)
	require.NoError(t, err)

	items[0].Word.Term = "changed"
	items[0].Word.StageIndex = 6
	assert.Equal(t, "cat", lib.Groups[0].Words[0].Term)
	assert.Equal(t, 2, lib.Groups[0].Words[0].StageIndex)
	assert.Equal(t, "Animals", items[0].GroupName)
}

func TestQueueBuilder_FixedDirection(t *testing.T) {
	items, err := newBuilder(1, review.WithDirection(domain.PromptWithDefinition)).
		Build(sampleLibrary(), review.ModeAll, 0)
	require.NoError(t, err)
	for _, it := range items {
		assert.Equal(t, domain.PromptWithDefinition, it.Direction)
		assert.Equal(t, it.Word.Definition, it.Shown())
		assert.Equal(t, it.Word.Term, it.Expected())
	}
}

func TestQueueBuilder_RandomDirectionUsesBoth(t *testing.T) {
	b := newBuilder(7)
	counts := map[domain.Direction]int{}
	for range 500 {
		items, err := b.Build(sampleLibrary(), review.ModeAll, 0)
		require.NoError(t, err)
		for _, it := range items {
			counts[it.Direction]++
		}
	}
	assert.Len(t, counts, 2)
	assert.InDelta(t, 1000, counts[domain.PromptWithTerm], 150)
	assert.InDelta(t, 1000, counts[domain.PromptWithDefinition], 150)
}

func TestQueueBuilder_ShuffleIsUniform(t *testing.T) {
	lib := &domain.Library{Groups: []domain.Group{{ID: 1, Name: "G", Words: []domain.Word{
		word(1, 1, "a", "a", 0, testNow),
		word(2, 1, "b", "b", 0, testNow),
		word(3, 1, "c", "c", 0, testNow),
	}}}}

	b := newBuilder(42)
	const trials = 6000
	perms := map[[3]int64]int{}
	for range trials {
		items, err := b.Build(lib, review.ModeShuffledAll, 0)
		require.NoError(t, err)
		require.Len(t, items, 3)
		perms[[3]int64{items[0].Word.ID, items[1].Word.ID, items[2].Word.ID}]++
	}

	require.Len(t, perms, 6, "every ordering should occur")
	for perm, n := range perms {
		assert.InDelta(t, trials/6, n, 200, "ordering %v", perm)
	}
}

func TestQueueBuilder_ShuffleKeepsEveryWordOnce(t *testing.T) {
	items, err := newBuilder(3).Build(sampleLibrary(), review.ModeShuffledAll, 0)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{11, 12, 21, 22}, ids(items))
}

func TestParseMode(t *testing.T) {
	tests := map[string]review.Mode{
		"due":          review.ModeDue,
		"SRS":          review.ModeDue,
		"all":          review.ModeAll,
		"group":        review.ModeGroupForced,
		"group-forced": review.ModeGroupForced,
		" shuffle ":    review.ModeShuffledAll,
	}
	for in, want := range tests {
		got, err := review.ParseMode(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := review.ParseMode("backwards")
	assert.True(t, errors.Is(err, review.ErrUnknownMode))

	assert.False(t, review.ModeAll.Scored())
	assert.True(t, review.ModeDue.Scored())
	assert.True(t, review.ModeShuffledAll.Scored())
}
