package config

import "github.com/phrazzld/scry-vocab/internal/domain/srs"

// Params builds the retention ladder described by the configuration.
func (c *Config) Params() (*srs.Params, error) {
	pc, err := c.SRS.ParamsConfig()
	if err != nil {
		return nil, err
	}
	return srs.NewParams(pc)
}
