package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/store"
)

// MockLibraryStore implements store.LibraryStore for testing
type MockLibraryStore struct {
	// Custom behavior functions
	LoadFn  func(ctx context.Context) (*domain.Library, error)
	SaveFn  func(ctx context.Context, lib *domain.Library) error
	CloseFn func() error

	// Default response values
	Library *domain.Library
	LoadErr error
	SaveErr error

	// Call tracking for verification
	LoadCalls struct {
		mu    sync.Mutex
		Count int
	}

	SaveCalls struct {
		mu        sync.Mutex
		Count     int
		Libraries []*domain.Library
	}
}

var _ store.LibraryStore = (*MockLibraryStore)(nil)

// Load implements the store.LibraryStore interface
func (m *MockLibraryStore) Load(ctx context.Context) (*domain.Library, error) {
	m.LoadCalls.mu.Lock()
	m.LoadCalls.Count++
	m.LoadCalls.mu.Unlock()

	if m.LoadFn != nil {
		return m.LoadFn(ctx)
	}
	if m.Library == nil && m.LoadErr == nil {
		return domain.NewLibrary(), nil
	}
	if m.Library == nil {
		return nil, m.LoadErr
	}
	return m.Library.Clone(), m.LoadErr
}

// Save implements the store.LibraryStore interface. Saved libraries are
// recorded as deep copies.
func (m *MockLibraryStore) Save(ctx context.Context, lib *domain.Library) error {
	m.SaveCalls.mu.Lock()
	m.SaveCalls.Count++
	m.SaveCalls.Libraries = append(m.SaveCalls.Libraries, lib.Clone())
	m.SaveCalls.mu.Unlock()

	if m.SaveFn != nil {
		return m.SaveFn(ctx, lib)
	}
	return m.SaveErr
}

// Close implements the store.LibraryStore interface
func (m *MockLibraryStore) Close() error {
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

// SaveCount returns the number of Save calls so far.
func (m *MockLibraryStore) SaveCount() int {
	m.SaveCalls.mu.Lock()
	defer m.SaveCalls.mu.Unlock()
	return m.SaveCalls.Count
}

// LastSaved returns a copy of the library passed to the most recent Save, or nil.
func (m *MockLibraryStore) LastSaved() *domain.Library {
	m.SaveCalls.mu.Lock()
	defer m.SaveCalls.mu.Unlock()
	if len(m.SaveCalls.Libraries) == 0 {
		return nil
	}
	return m.SaveCalls.Libraries[len(m.SaveCalls.Libraries)-1].Clone()
}
