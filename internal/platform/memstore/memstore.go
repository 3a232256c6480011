// Package memstore provides a process-local store.LibraryStore. Nothing
// survives a restart; it backs the "memory" storage driver and tests.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// Store holds a private deep copy of the last saved library.
type Store struct {
	mu    sync.RWMutex
	lib   *domain.Library
	saves int
}

// Ensure Store implements store.LibraryStore interface
var _ store.LibraryStore = (*Store)(nil)

// New returns a Store seeded with lib, or empty when lib is nil.
func New(lib *domain.Library) *Store {
	s := &Store{lib: domain.NewLibrary()}
	if lib != nil {
		s.lib = lib.Clone()
	}
	return s
}

// Load implements store.LibraryStore.Load.
func (s *Store) Load(ctx context.Context) (*domain.Library, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("library", "load", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lib.Clone(), nil
}

// Save implements store.LibraryStore.Save.
func (s *Store) Save(ctx context.Context, lib *domain.Library) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("library", "save", err)
	}
	if lib == nil {
		return store.NewStoreError("library", "save", "library is nil", store.ErrInvalidEntity)
	}
	if err := lib.Validate(); err != nil {
		return store.NewStoreError("library", "save", "library is invalid",
			fmt.Errorf("%w: %w", store.ErrInvalidEntity, err))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lib = lib.Clone()
	s.saves++
	return nil
}

// Saves reports how many successful saves happened.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

// Close implements store.LibraryStore.Close.
func (s *Store) Close() error {
	return nil
}
