package domain

import (
	"fmt"
	"strings"
	"time"
)

// Word is a single term/definition pair together with its review schedule.
// Definition may list several accepted variants separated by ',', ';' or '/'.
type Word struct {
	ID           int64     `json:"id"`
	GroupID      int64     `json:"groupId"`
	Term         string    `json:"term"`
	Definition   string    `json:"definition"`
	StageIndex   int       `json:"stageIndex"`
	NextReviewAt time.Time `json:"nextReviewAt"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Validate checks the content fields of the word. Stage bounds are checked by
// the srs package, which owns the ladder.
func (w *Word) Validate() error {
	if strings.TrimSpace(w.Term) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyTerm)
	}
	if strings.TrimSpace(w.Definition) == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyDefinition)
	}
	return nil
}

// Side returns the text shown to the user and the text expected back for the
// given direction.
func (w Word) Side(d Direction) (shown, expected string) {
	if d == PromptWithDefinition {
		return w.Definition, w.Term
	}
	return w.Term, w.Definition
}
