package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when a group or word id does not resolve.
	ErrNotFound = errors.New("not found")

	// ErrInvalidFormat is returned when data is not in the expected format.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrEmptyGroupName is returned when a group name is empty or only whitespace.
	ErrEmptyGroupName = errors.New("group name cannot be empty")

	// ErrEmptyTerm is returned when a word has no term.
	ErrEmptyTerm = errors.New("word term cannot be empty")

	// ErrEmptyDefinition is returned when a word has no definition.
	ErrEmptyDefinition = errors.New("word definition cannot be empty")

	// ErrEmptyAnswer is returned when a submitted answer is empty after trimming.
	ErrEmptyAnswer = errors.New("enter an answer")

	// ErrDuplicateID is returned when two groups or two words share an id.
	ErrDuplicateID = errors.New("duplicate id")

	// ErrStageOutOfRange is returned when a stage index falls outside the ladder.
	ErrStageOutOfRange = errors.New("stage index out of range")
)
