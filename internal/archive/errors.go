package archive

import (
	"errors"
	"fmt"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// ErrContainerUnsupported is returned when packing or unpacking is attempted
// on a container without zip support.
var ErrContainerUnsupported = errors.New("archive container support unavailable")

// FormatError describes one entry that could not be decoded. It matches
// domain.ErrInvalidFormat.
type FormatError struct {
	// Entry names the container entry or document path, e.g. "3-animals.json"
	// or "groups[2]".
	Entry string
	Err   error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %v", e.Entry, e.Err)
}

// Unwrap exposes both the cause and domain.ErrInvalidFormat.
func (e *FormatError) Unwrap() []error {
	return []error{domain.ErrInvalidFormat, e.Err}
}
