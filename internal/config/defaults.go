package config

import (
	"github.com/bobmcallan/anvil/internal/common"
	"github.com/bobmcallan/anvil/internal/mine"
	"github.com/bobmcallan/anvil/internal/safety"
)

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Safety: safety.DefaultPolicy(),
		Mining: mine.Options{
			Collision: mine.CollisionDrop,
		},
		Output: OutputConfig{
			Dir: "./generated",
		},
		Logging: common.LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "logs/anvil.log",
			MaxSizeMB:  1,
			MaxBackups: 5,
		},
	}
}
