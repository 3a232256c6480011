package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-vocab/internal/domain/srs"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "VOCAB"

// Load configuration from environment variables and optionally a vocab.yaml
// in the working directory or the user config directory.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile is Load with an explicit config file path. An empty path searches
// the default locations; a missing file there is not an error.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	} else {
		v.SetConfigName("vocab")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "vocab"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// AutomaticEnv only resolves keys viper already knows about; bind the
	// ones without defaults explicitly.
	for _, key := range []string{"storage.url", "srs.intervals", "srs.labels"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("error binding environment variable for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs struct validation plus the ladder checks that need parsing.
func Validate(cfg *Config) error {
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	pc, err := cfg.SRS.ParamsConfig()
	if err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if len(pc.Intervals) > 0 || len(pc.Labels) > 0 {
		if _, err := srs.NewParams(pc); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("storage.driver", "sqlite")
	v.SetDefault("storage.path", "vocab.db")
	v.SetDefault("archive.compression", true)
}
