package store

import (
	"context"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// LibraryStore defines the interface for library persistence.
// Version: 1.0
type LibraryStore interface {
	// Load returns the persisted library.
	// An absent library (first run) is not an error: implementations return an
	// empty library. Unreadable or corrupted data is reported as ErrCorrupt,
	// optionally together with whatever could be salvaged.
	// Any other failure is a StoreError wrapping ErrStorageUnavailable.
	Load(ctx context.Context) (*domain.Library, error)

	// Save replaces the persisted library with lib atomically: after an error
	// the previously saved state is still intact.
	// Failures are StoreErrors wrapping ErrStorageUnavailable.
	Save(ctx context.Context, lib *domain.Library) error

	// Close releases any resources held by the store.
	Close() error
}
