package srs

import (
	"fmt"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Len returns the number of stages on the ladder.
func (p *Params) Len() int {
	return len(p.Intervals)
}

// Top returns the index of the final (learned) stage.
func (p *Params) Top() int {
	return len(p.Intervals) - 1
}

// Interval returns the review interval of a stage. An out-of-range index is a
// programming error and reported as ErrStageOutOfRange.
func (p *Params) Interval(stage int) (time.Duration, error) {
	if stage < 0 || stage >= len(p.Intervals) {
		return 0, fmt.Errorf("%w: %d not in [0, %d]", domain.ErrStageOutOfRange, stage, p.Top())
	}
	return p.Intervals[stage], nil
}

// Label returns the display label of a stage, or "?" when out of range.
func (p *Params) Label(stage int) string {
	if stage < 0 || stage >= len(p.Labels) {
		return "?"
	}
	return p.Labels[stage]
}

// Advance promotes a stage by one, saturating at the top stage.
func (p *Params) Advance(stage int) int {
	return min(stage+1, p.Top())
}

// Regress demotes a stage by one, saturating at stage 0.
func (p *Params) Regress(stage int) int {
	return max(stage-1, 0)
}

// IsDue reports whether the word's scheduled review time has been reached.
func (p *Params) IsDue(w domain.Word, now time.Time) bool {
	return !now.Before(w.NextReviewAt)
}

// IsLearned reports whether the word sits on the final stage.
func (p *Params) IsLearned(w domain.Word) bool {
	return w.StageIndex == p.Top()
}

// calculateNextWord returns a copy of w graded at now. The stage moves one
// rung up on a correct answer and one rung down otherwise, and the next review
// is always now plus the new stage's interval.
func calculateNextWord(w *domain.Word, correct bool, now time.Time, params *Params) (*domain.Word, error) {
	if _, err := params.Interval(w.StageIndex); err != nil {
		return nil, err
	}

	next := *w
	if correct {
		next.StageIndex = params.Advance(w.StageIndex)
	} else {
		next.StageIndex = params.Regress(w.StageIndex)
	}

	// Interval cannot fail: Advance and Regress stay in range
	ivl, _ := params.Interval(next.StageIndex)
	next.NextReviewAt = now.Add(ivl)
	return &next, nil
}
