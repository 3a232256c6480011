package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/phrazzld/scry-vocab/internal/archive"
	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
)

// MergeReport summarizes an import.
type MergeReport struct {
	GroupsAdded int `json:"groupsAdded"`
	WordsAdded  int `json:"wordsAdded"`
	// Renumbered maps an incoming id to the id it was stored under, for every
	// group or word whose id collided or was missing.
	GroupsRenumbered map[int64]int64 `json:"groupsRenumbered,omitempty"`
	WordsRenumbered  map[int64]int64 `json:"wordsRenumbered,omitempty"`
	Skipped          int             `json:"skipped"`
}

// Merge adds incoming groups to a copy of lib and returns the copy. Nothing
// already in lib is overwritten or deduplicated.
//
// A group id that is missing or already used by a group gets a fresh id, and
// its words follow it. A word id that is missing or already used by any word
// in the library or earlier in the batch gets a fresh id. Missing stage,
// review and creation times default to stage 0, now plus the first interval,
// and now; a stage outside the ladder also resets to 0.
//
// Groups without a name and words without a term or definition are skipped
// and reported in the returned error; the rest are still merged.
func Merge(
	lib *domain.Library,
	incoming []archive.GroupDocument,
	alloc IDAllocator,
	params *srs.Params,
	now time.Time,
) (*domain.Library, MergeReport, error) {
	out := lib.Clone()
	report := MergeReport{
		GroupsRenumbered: map[int64]int64{},
		WordsRenumbered:  map[int64]int64{},
	}

	groupIDs := make(map[int64]struct{}, len(out.Groups))
	wordIDs := make(map[int64]struct{}, out.WordCount())
	for _, g := range out.Groups {
		groupIDs[g.ID] = struct{}{}
		for _, w := range g.Words {
			wordIDs[w.ID] = struct{}{}
		}
	}

	// Fresh ids must not collide with ids that appear later in the batch.
	alloc.Observe(out.MaxID())
	for _, doc := range incoming {
		if doc.ID != nil {
			alloc.Observe(*doc.ID)
		}
		for _, w := range doc.Words {
			if w.ID != nil {
				alloc.Observe(*w.ID)
			}
		}
	}

	firstInterval := params.Intervals[0]
	var errs *multierror.Error

	for gi, doc := range incoming {
		name := strings.TrimSpace(doc.Name)
		if name == "" {
			report.Skipped++
			errs = multierror.Append(errs, &archive.FormatError{
				Entry: fmt.Sprintf("group %d", gi),
				Err:   domain.ErrEmptyGroupName,
			})
			continue
		}

		gid, renumbered := claim(doc.ID, groupIDs, alloc)
		if renumbered && doc.ID != nil {
			report.GroupsRenumbered[*doc.ID] = gid
		}

		group := domain.Group{ID: gid, Name: name, Words: make([]domain.Word, 0, len(doc.Words))}
		for wi, wd := range doc.Words {
			term := strings.TrimSpace(wd.Term)
			definition := strings.TrimSpace(wd.Definition)
			if term == "" || definition == "" {
				report.Skipped++
				errs = multierror.Append(errs, &archive.FormatError{
					Entry: fmt.Sprintf("group %q word %d", name, wi),
					Err:   fmt.Errorf("%w: term and definition are required", domain.ErrValidation),
				})
				continue
			}

			wid, renumbered := claim(wd.ID, wordIDs, alloc)
			if renumbered && wd.ID != nil {
				report.WordsRenumbered[*wd.ID] = wid
			}

			w := domain.Word{
				ID:           wid,
				GroupID:      gid,
				Term:         term,
				Definition:   definition,
				NextReviewAt: now.Add(firstInterval),
				CreatedAt:    now,
			}
			if stage := wd.Stage(); stage != nil && *stage >= 0 && *stage < params.Len() {
				w.StageIndex = *stage
			}
			if due := wd.Due(); due != nil && !due.IsZero() {
				w.NextReviewAt = due.Time
			}
			if wd.CreatedAt != nil && !wd.CreatedAt.IsZero() {
				w.CreatedAt = wd.CreatedAt.Time
			}
			group.Words = append(group.Words, w)
		}

		out.Groups = append(out.Groups, group)
		report.GroupsAdded++
		report.WordsAdded += len(group.Words)
	}

	return out, report, errs.ErrorOrNil()
}

// claim returns want when it is a usable, unused id, otherwise a fresh one.
// The chosen id is recorded in used.
func claim(want *int64, used map[int64]struct{}, alloc IDAllocator) (id int64, renumbered bool) {
	if want != nil && *want > 0 {
		if _, taken := used[*want]; !taken {
			used[*want] = struct{}{}
			return *want, false
		}
	}
	id = alloc.Next()
	for {
		if _, taken := used[id]; !taken {
			break
		}
		id = alloc.Next()
	}
	used[id] = struct{}{}
	return id, true
}
