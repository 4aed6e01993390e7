package config

import (
	"fmt"

	"github.com/rs/zerolog"
)

// LogConfig defines logger settings.
type LogConfig struct {
	// Level is a zerolog level name such as "debug" or "warn".
	Level string `json:"level"`
}

// SetDefaults applies sane defaults.
func (c *LogConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = zerolog.InfoLevel.String()
	}
}

// Validate checks the level name.
func (c LogConfig) Validate() error {
	if _, err := zerolog.ParseLevel(c.Level); err != nil {
		return fmt.Errorf("log: unknown level %s", c.Level)
	}
	return nil
}
