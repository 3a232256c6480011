package srs

import (
	"errors"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain"
)

// Common errors
var (
	ErrNilWord = errors.New("word cannot be nil")
)

// Service defines the interface for stage ladder operations on words.
type Service interface {
	// Schedule places a freshly created word on stage 0, due after the first interval
	Schedule(w *domain.Word, now time.Time) (*domain.Word, error)

	// Grade computes the word's new stage and next review time for an answer outcome
	Grade(w *domain.Word, correct bool, now time.Time) (*domain.Word, error)

	// Params exposes the ladder for due checks and labels
	Params() *Params
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with the default ladder
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with a custom ladder
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, ErrInvalidParams
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{
		params: params,
	}, nil
}

// Schedule implements Service.Schedule
func (s *defaultService) Schedule(w *domain.Word, now time.Time) (*domain.Word, error) {
	if w == nil {
		return nil, ErrNilWord
	}

	next := *w
	next.StageIndex = 0
	next.NextReviewAt = now.Add(s.params.Intervals[0])
	next.CreatedAt = now
	return &next, nil
}

// Grade implements Service.Grade. The input word is never modified.
func (s *defaultService) Grade(w *domain.Word, correct bool, now time.Time) (*domain.Word, error) {
	if w == nil {
		return nil, ErrNilWord
	}
	return calculateNextWord(w, correct, now, s.params)
}

// Params implements Service.Params
func (s *defaultService) Params() *Params {
	return s.params
}
