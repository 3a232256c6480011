package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
var (
	// ErrNotOpen is returned when the library is used before Open succeeded.
	ErrNotOpen = errors.New("library is not open")

	// ErrNothingToExport is returned when an export would contain no groups.
	ErrNothingToExport = errors.New("nothing to export")
)

// ServiceError wraps errors from the library service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "add_word", "import")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a ServiceError for op.
func NewServiceError(op, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: op,
		Message:   message,
		Err:       err,
	}
}
