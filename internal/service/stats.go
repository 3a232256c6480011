package service

import (
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
)

// StageCount is the number of words on one stage of the ladder.
type StageCount struct {
	Stage int    `json:"stage" yaml:"stage"`
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// Stats summarizes the library at a point in time.
type Stats struct {
	Groups  int          `json:"groups" yaml:"groups"`
	Total   int          `json:"total" yaml:"total"`
	Due     int          `json:"due" yaml:"due"`
	Learned int          `json:"learned" yaml:"learned"`
	Stages  []StageCount `json:"stages" yaml:"stages"`
}

// ComputeStats counts words per stage, due at now, and on the top stage.
func ComputeStats(lib *domain.Library, params *srs.Params, now time.Time) Stats {
	st := Stats{
		Groups: len(lib.Groups),
		Stages: make([]StageCount, params.Len()),
	}
	for i := range st.Stages {
		st.Stages[i] = StageCount{Stage: i, Label: params.Label(i)}
	}
	for _, g := range lib.Groups {
		for _, w := range g.Words {
			st.Total++
			if params.IsDue(w, now) {
				st.Due++
			}
			if params.IsLearned(w) {
				st.Learned++
			}
			if w.StageIndex >= 0 && w.StageIndex < len(st.Stages) {
				st.Stages[w.StageIndex].Count++
			}
		}
	}
	return st
}
