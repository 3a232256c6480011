package srs

import (
	"errors"
	"fmt"
	"time"
)

// StageCount is the number of rungs on the retention ladder.
const StageCount = 7

// ErrInvalidParams is returned when a ladder configuration is unusable.
var ErrInvalidParams = errors.New("invalid srs parameters")

// Params defines the retention ladder: one review interval and one display
// label per stage, ordered shortest to longest.
type Params struct {
	Intervals []time.Duration
	Labels    []string
}

// ParamsConfig allows overriding the default ladder. Nil or empty slices keep
// the defaults.
type ParamsConfig struct {
	Intervals []time.Duration
	Labels    []string
}

// NewDefaultParams creates the default ladder: 10 minutes up to 90 days.
func NewDefaultParams() *Params {
	return &Params{
		Intervals: []time.Duration{
			10 * time.Minute,
			3 * time.Hour,
			24 * time.Hour,
			3 * 24 * time.Hour,
			7 * 24 * time.Hour,
			30 * 24 * time.Hour,
			90 * 24 * time.Hour,
		},
		Labels: []string{"10m", "3h", "1d", "3d", "7d", "30d", "90d"},
	}
}

// NewParams creates a ladder from the defaults with config overrides applied,
// and validates the result.
func NewParams(config ParamsConfig) (*Params, error) {
	params := NewDefaultParams()

	if len(config.Intervals) > 0 {
		params.Intervals = append([]time.Duration(nil), config.Intervals...)
		// Custom intervals without custom labels get generated labels
		if len(config.Labels) == 0 {
			params.Labels = make([]string, len(params.Intervals))
			for i, d := range params.Intervals {
				params.Labels[i] = formatInterval(d)
			}
		}
	}
	if len(config.Labels) > 0 {
		params.Labels = append([]string(nil), config.Labels...)
	}

	if err := params.Validate(); err != nil {
		return nil, err
	}
	return params, nil
}

// Validate checks that the ladder has StageCount strictly increasing positive
// intervals and a label for each.
func (p *Params) Validate() error {
	if len(p.Intervals) != StageCount {
		return fmt.Errorf("%w: need %d intervals, got %d", ErrInvalidParams, StageCount, len(p.Intervals))
	}
	if len(p.Labels) != len(p.Intervals) {
		return fmt.Errorf("%w: need %d labels, got %d", ErrInvalidParams, len(p.Intervals), len(p.Labels))
	}
	for i, d := range p.Intervals {
		if d <= 0 {
			return fmt.Errorf("%w: interval %d must be positive", ErrInvalidParams, i)
		}
		if i > 0 && d <= p.Intervals[i-1] {
			return fmt.Errorf("%w: interval %d must be longer than interval %d", ErrInvalidParams, i, i-1)
		}
	}
	return nil
}

func formatInterval(d time.Duration) string {
	day := 24 * time.Hour
	switch {
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return d.String()
	}
}
