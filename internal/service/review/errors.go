package review

import "errors"

var (
	// ErrNothingToReview is returned when a queue would be empty.
	ErrNothingToReview = errors.New("nothing to review")

	// ErrUnknownMode is returned for a mode name that does not exist.
	ErrUnknownMode = errors.New("unknown review mode")

	// ErrInvalidTransition is returned when an action does not apply to the
	// session's current state.
	ErrInvalidTransition = errors.New("action not allowed in current session state")
)
