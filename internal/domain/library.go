package domain

import (
	"fmt"
)

// Library is the complete persisted state: every group and, through them,
// every word. Group ids are unique across the library and word ids are unique
// across all groups, not just within one.
type Library struct {
	Groups []Group `json:"groups"`
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{Groups: []Group{}}
}

// Clone returns a deep copy. Mutations on the copy never reach the original.
func (l *Library) Clone() *Library {
	out := &Library{Groups: make([]Group, len(l.Groups))}
	for i, g := range l.Groups {
		words := make([]Word, len(g.Words))
		copy(words, g.Words)
		out.Groups[i] = Group{ID: g.ID, Name: g.Name, Words: words}
	}
	return out
}

// FindGroup returns a pointer to the group with the given id, or nil.
func (l *Library) FindGroup(id int64) *Group {
	for i := range l.Groups {
		if l.Groups[i].ID == id {
			return &l.Groups[i]
		}
	}
	return nil
}

// FindWord looks a word up by id across all groups.
func (l *Library) FindWord(id int64) (*Group, *Word) {
	for i := range l.Groups {
		if w := l.Groups[i].FindWord(id); w != nil {
			return &l.Groups[i], w
		}
	}
	return nil, nil
}

// RemoveGroup deletes a group together with all of its words.
func (l *Library) RemoveGroup(id int64) bool {
	for i := range l.Groups {
		if l.Groups[i].ID == id {
			l.Groups = append(l.Groups[:i], l.Groups[i+1:]...)
			return true
		}
	}
	return false
}

// WordCount returns the number of words across all groups.
func (l *Library) WordCount() int {
	n := 0
	for _, g := range l.Groups {
		n += len(g.Words)
	}
	return n
}

// MaxID returns the largest group or word id in the library, or 0.
func (l *Library) MaxID() int64 {
	var max int64
	for _, g := range l.Groups {
		if g.ID > max {
			max = g.ID
		}
		for _, w := range g.Words {
			if w.ID > max {
				max = w.ID
			}
		}
	}
	return max
}

// Validate checks every group, the global id uniqueness invariants and that
// no stage is negative. The upper stage bound depends on the ladder and is
// enforced by Repair.
func (l *Library) Validate() error {
	groupIDs := make(map[int64]struct{}, len(l.Groups))
	wordIDs := make(map[int64]struct{}, l.WordCount())
	for i := range l.Groups {
		g := &l.Groups[i]
		if err := g.Validate(); err != nil {
			return err
		}
		if _, dup := groupIDs[g.ID]; dup {
			return fmt.Errorf("%w: %w: group %d", ErrValidation, ErrDuplicateID, g.ID)
		}
		groupIDs[g.ID] = struct{}{}
		for _, w := range g.Words {
			if _, dup := wordIDs[w.ID]; dup {
				return fmt.Errorf("%w: %w: word %d", ErrValidation, ErrDuplicateID, w.ID)
			}
			wordIDs[w.ID] = struct{}{}
			if w.StageIndex < 0 {
				return fmt.Errorf("%w: %w: word %d has stage %d", ErrValidation, ErrStageOutOfRange, w.ID, w.StageIndex)
			}
		}
	}
	return nil
}
