package domain

import (
	"encoding"
	"fmt"
)

// Direction selects which side of a word is shown and which is expected back.
type Direction int

const (
	// PromptWithTerm shows the term and expects the definition.
	PromptWithTerm Direction = iota + 1
	// PromptWithDefinition shows the definition and expects the term.
	PromptWithDefinition
)

var directionNames = [...]string{
	PromptWithTerm:       "prompt-with-term",
	PromptWithDefinition: "prompt-with-definition",
}

var (
	_ fmt.Stringer             = Direction(0)
	_ encoding.TextMarshaler   = Direction(0)
	_ encoding.TextUnmarshaler = (*Direction)(nil)
)

func (d Direction) isValid() bool {
	return d == PromptWithTerm || d == PromptWithDefinition
}

// String returns the wire name of the direction, or "Direction(n)" when invalid.
func (d Direction) String() string {
	if d.isValid() {
		return directionNames[d]
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if !d.isValid() {
		return nil, fmt.Errorf("%w: direction %d", ErrInvalidFormat, int(d))
	}
	return []byte(directionNames[d]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	switch string(text) {
	case directionNames[PromptWithTerm]:
		*d = PromptWithTerm
	case directionNames[PromptWithDefinition]:
		*d = PromptWithDefinition
	default:
		return fmt.Errorf("%w: direction %q", ErrInvalidFormat, text)
	}
	return nil
}
