package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phrazzld/scry-vocab/internal/domain/srs"
)

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Log     LogConfig     `mapstructure:"log" validate:"required"`
	Storage StorageConfig `mapstructure:"storage" validate:"required"`
	SRS     SRSConfig     `mapstructure:"srs"`
	Archive ArchiveConfig `mapstructure:"archive"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"required,oneof=json text"`
}

// StorageConfig selects and locates the library backend.
type StorageConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=sqlite postgres file memory"`
	// Path is the database file for sqlite and the JSON document for file.
	Path string `mapstructure:"path" validate:"required_unless=Driver postgres"`
	URL  string `mapstructure:"url" validate:"required_if=Driver postgres"`
}

// SRSConfig overrides the retention ladder. Empty slices keep the defaults.
type SRSConfig struct {
	// Intervals accepts Go durations plus a whole-day suffix, e.g. "10m", "3h", "7d".
	Intervals []string `mapstructure:"intervals" validate:"omitempty,len=7,dive,required"`
	Labels    []string `mapstructure:"labels" validate:"omitempty,len=7,dive,required"`
}

// ArchiveConfig contains import/export settings.
type ArchiveConfig struct {
	// Compression enables zip bundles. When false, multi-group exports are
	// written as a single JSON document.
	Compression bool `mapstructure:"compression"`
}

// ParamsConfig converts the ladder overrides into srs.ParamsConfig.
func (c SRSConfig) ParamsConfig() (srs.ParamsConfig, error) {
	out := srs.ParamsConfig{Labels: c.Labels}
	for _, raw := range c.Intervals {
		d, err := ParseInterval(raw)
		if err != nil {
			return srs.ParamsConfig{}, err
		}
		out.Intervals = append(out.Intervals, d)
	}
	return out, nil
}

// ParseInterval parses a Go duration string, additionally accepting an
// integer number of days such as "30d".
func ParseInterval(raw string) (time.Duration, error) {
	s := strings.TrimSpace(raw)
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid interval %q: %w", raw, err)
	}
	return d, nil
}
