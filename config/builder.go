package config

import (
	"github.com/jrowley/glimmer"
)

// Build converts a parsed [Config] into the functional options the
// glimmer SDK expects.
//
// The returned options re-validate at construction time, so a Config
// produced by [Parse] always builds successfully.
func Build(cfg *Config) []glimmer.Option {
	return []glimmer.Option{
		glimmer.WithHost(cfg.Host),
		glimmer.WithPort(cfg.Port),
		glimmer.WithAllowedOrigin(cfg.AllowedOrigin),
		glimmer.WithBrightness(*cfg.Brightness),
		glimmer.WithRotation(cfg.Rotation),
		glimmer.WithAutoOff(cfg.AutoOff.Duration()),
		glimmer.WithHistorySize(cfg.HistorySize),
		glimmer.WithDriver(cfg.Driver),
		glimmer.WithSPI(cfg.SPI.Dev, cfg.SPI.SpeedHz),
	}
}
