package config

import (
	"fmt"
	"slices"
)

var validLogLevels = []string{"debug", "info", "warn", "warning", "error"}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	if !slices.Contains(validLogLevels, c.Logging.Level) {
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	if !slices.Contains(validLogLevels, c.Logging.FileLevel) {
		return fmt.Errorf("logging.file_level: unsupported value %q", c.Logging.FileLevel)
	}
	return nil
}
