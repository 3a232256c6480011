package store

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageUnavailable means the backend could not be read or written.
	// Callers keep their in-memory state and may retry.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrCorrupt means persisted data exists but cannot be decoded or breaks
	// the library invariants. Callers fall back to an empty library.
	ErrCorrupt = errors.New("stored data is corrupt")

	// ErrDuplicate means a save would reuse a group or word id.
	ErrDuplicate = errors.New("duplicate id in stored library")

	// ErrInvalidEntity means the library was rejected before being written.
	// The wrapped error carries the validation detail.
	ErrInvalidEntity = errors.New("invalid library")

	// ErrTransactionFailed means a save could not be committed.
	ErrTransactionFailed = errors.New("transaction failed")
)

// IsStorageError reports whether err is a backend failure rather than a
// problem with the data itself.
func IsStorageError(err error) bool {
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrTransactionFailed)
}

// StoreError records which store operation failed on which entity.
type StoreError struct {
	Entity    string // "library"
	Operation string // "open", "load", "save", "migrate"
	Message   string
	Err       error
}

func (e *StoreError) Error() string {
	msg := fmt.Sprintf("%s %s: %s", e.Entity, e.Operation, e.Message)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError creates a StoreError.
func NewStoreError(entity, operation, message string, err error) *StoreError {
	return &StoreError{Entity: entity, Operation: operation, Message: message, Err: err}
}

// Unavailable wraps err so that it matches ErrStorageUnavailable while err
// itself stays reachable through errors.Is and errors.As.
func Unavailable(entity, operation string, err error) *StoreError {
	return NewStoreError(entity, operation, "backend unreachable",
		fmt.Errorf("%w: %w", ErrStorageUnavailable, err))
}
