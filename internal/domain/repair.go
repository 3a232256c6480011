package domain

import (
	"fmt"
	"strings"
)

// Repair brings l back within the rules Validate enforces and returns one
// note per change. Nothing is dropped: duplicate ids are renumbered above the
// current maximum, blank group names are replaced, words are re-parented to
// the group holding them and stages are clamped to [0, stages). A
// non-positive stages only clamps negative stages.
func (l *Library) Repair(stages int) []string {
	var notes []string
	next := l.MaxID()

	groupIDs := make(map[int64]struct{}, len(l.Groups))
	wordIDs := make(map[int64]struct{}, l.WordCount())
	for i := range l.Groups {
		g := &l.Groups[i]
		if _, dup := groupIDs[g.ID]; dup {
			next++
			notes = append(notes, fmt.Sprintf("group %d renumbered to %d", g.ID, next))
			g.ID = next
		}
		groupIDs[g.ID] = struct{}{}

		if strings.TrimSpace(g.Name) == "" {
			g.Name = fmt.Sprintf("Group %d", g.ID)
			notes = append(notes, fmt.Sprintf("group %d had no name", g.ID))
		}
		if g.Words == nil {
			g.Words = []Word{}
		}

		for j := range g.Words {
			w := &g.Words[j]
			if _, dup := wordIDs[w.ID]; dup {
				next++
				notes = append(notes, fmt.Sprintf("word %d renumbered to %d", w.ID, next))
				w.ID = next
			}
			wordIDs[w.ID] = struct{}{}

			if w.GroupID != g.ID {
				notes = append(notes, fmt.Sprintf("word %d moved from group %d to %d", w.ID, w.GroupID, g.ID))
				w.GroupID = g.ID
			}
			switch {
			case w.StageIndex < 0:
				notes = append(notes, fmt.Sprintf("word %d stage %d reset to 0", w.ID, w.StageIndex))
				w.StageIndex = 0
			case stages > 0 && w.StageIndex >= stages:
				notes = append(notes, fmt.Sprintf("word %d stage %d clamped to %d", w.ID, w.StageIndex, stages-1))
				w.StageIndex = stages - 1
			}
		}
	}
	return notes
}
