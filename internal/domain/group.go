package domain

import (
	"fmt"
	"strings"
)

// Group is a named, ordered collection of words. A group owns its words
// exclusively: every word's GroupID equals the group's ID.
type Group struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Words []Word `json:"words"`
}

// Validate checks that the group has a usable name and that every word
// belongs to it.
func (g *Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyGroupName)
	}
	for i := range g.Words {
		if g.Words[i].GroupID != g.ID {
			return fmt.Errorf("%w: word %d has group id %d, want %d",
				ErrValidation, g.Words[i].ID, g.Words[i].GroupID, g.ID)
		}
	}
	return nil
}

// FindWord returns a pointer into the group's word slice, or nil.
func (g *Group) FindWord(id int64) *Word {
	for i := range g.Words {
		if g.Words[i].ID == id {
			return &g.Words[i]
		}
	}
	return nil
}

// RemoveWord deletes the word with the given id and reports whether it existed.
func (g *Group) RemoveWord(id int64) bool {
	for i := range g.Words {
		if g.Words[i].ID == id {
			g.Words = append(g.Words[:i], g.Words[i+1:]...)
			return true
		}
	}
	return false
}
