package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/scry-vocab/internal/domain"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/phrazzld/scry-vocab/internal/service/review"
)

// GradeCall records one GradeWord invocation.
type GradeCall struct {
	ID      int64
	Correct bool
}

// MockReviewLibrary implements review.Library for testing
type MockReviewLibrary struct {
	// Custom behavior functions
	GradeWordFn func(ctx context.Context, id int64, correct bool) (domain.Word, error)

	// Default response values
	Library     *domain.Library
	SRSParams   *srs.Params
	GradeErr    error
	GradeResult domain.Word

	mu         sync.Mutex
	gradeCalls []GradeCall
}

var _ review.Library = (*MockReviewLibrary)(nil)

// Snapshot returns a copy of Library, or an empty library.
func (m *MockReviewLibrary) Snapshot() *domain.Library {
	if m.Library == nil {
		return domain.NewLibrary()
	}
	return m.Library.Clone()
}

// GradeWord implements the review.Library interface
func (m *MockReviewLibrary) GradeWord(ctx context.Context, id int64, correct bool) (domain.Word, error) {
	m.mu.Lock()
	m.gradeCalls = append(m.gradeCalls, GradeCall{ID: id, Correct: correct})
	m.mu.Unlock()

	if m.GradeWordFn != nil {
		return m.GradeWordFn(ctx, id, correct)
	}
	return m.GradeResult, m.GradeErr
}

// Params returns SRSParams or the default ladder.
func (m *MockReviewLibrary) Params() *srs.Params {
	if m.SRSParams == nil {
		return srs.NewDefaultParams()
	}
	return m.SRSParams
}

// GradeCalls returns the recorded GradeWord calls.
func (m *MockReviewLibrary) GradeCalls() []GradeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]GradeCall, len(m.gradeCalls))
	copy(out, m.gradeCalls)
	return out
}
