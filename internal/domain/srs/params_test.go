package srs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultParams(t *testing.T) {
	t.Parallel()
	params := NewDefaultParams()

	require.NoError(t, params.Validate())
	assert.Equal(t, StageCount, params.Len())
	assert.Equal(t, "10m", params.Label(0))
	assert.Equal(t, "90d", params.Label(6))
	assert.Equal(t, "?", params.Label(7))
}

func TestNewParams(t *testing.T) {
	t.Parallel()

	custom := []time.Duration{
		time.Minute, time.Hour, 2 * time.Hour, 24 * time.Hour,
		48 * time.Hour, 7 * 24 * time.Hour, 14 * 24 * time.Hour,
	}

	testCases := []struct {
		name       string
		config     ParamsConfig
		wantErr    bool
		checkLabel func(t *testing.T, p *Params)
	}{
		{
			name:   "empty config keeps defaults",
			config: ParamsConfig{},
			checkLabel: func(t *testing.T, p *Params) {
				assert.Equal(t, NewDefaultParams().Intervals, p.Intervals)
			},
		},
		{
			name:   "custom intervals generate labels",
			config: ParamsConfig{Intervals: custom},
			checkLabel: func(t *testing.T, p *Params) {
				assert.Equal(t, []string{"1m", "1h", "2h", "1d", "2d", "7d", "14d"}, p.Labels)
			},
		},
		{
			name:   "custom labels",
			config: ParamsConfig{Labels: []string{"a", "b", "c", "d", "e", "f", "g"}},
			checkLabel: func(t *testing.T, p *Params) {
				assert.Equal(t, "g", p.Label(6))
			},
		},
		{
			name:    "wrong number of intervals",
			config:  ParamsConfig{Intervals: custom[:3]},
			wantErr: true,
		},
		{
			name:    "intervals not increasing",
			config:  ParamsConfig{Intervals: append([]time.Duration{time.Hour}, custom[1:]...)},
			wantErr: true,
		},
		{
			name:    "label count mismatch",
			config:  ParamsConfig{Labels: []string{"only one"}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := NewParams(tc.config)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidParams)
				assert.Nil(t, p)
				return
			}
			require.NoError(t, err)
			tc.checkLabel(t, p)
		})
	}
}

func TestNewParamsDoesNotAliasDefaults(t *testing.T) {
	t.Parallel()
	a := NewDefaultParams()
	a.Intervals[0] = time.Second
	assert.Equal(t, 10*time.Minute, NewDefaultParams().Intervals[0])
}
