package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLatex()
	if err := c.normalizeGPG(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.DefaultsDir, err = expandPath(strings.TrimSpace(c.Paths.DefaultsDir)); err != nil {
		return fmt.Errorf("paths.defaults_dir: %w", err)
	}
	if c.Paths.WorkRoot, err = expandPath(strings.TrimSpace(c.Paths.WorkRoot)); err != nil {
		return fmt.Errorf("paths.work_root: %w", err)
	}
	return nil
}

func (c *Config) normalizeLatex() {
	c.Latex.Binary = strings.TrimSpace(c.Latex.Binary)
	if c.Latex.Binary == "" {
		c.Latex.Binary = defaultLatexBinary
	}
}

func (c *Config) normalizeGPG() error {
	c.GPG.Binary = strings.TrimSpace(c.GPG.Binary)
	if c.GPG.Binary == "" {
		c.GPG.Binary = defaultGPGBinary
	}
	c.GPG.Key = strings.TrimSpace(c.GPG.Key)
	if c.GPG.Key == "" {
		if value, ok := os.LookupEnv(envGPGKey); ok {
			c.GPG.Key = strings.TrimSpace(value)
		}
	}
	c.GPG.Homedir = strings.TrimSpace(c.GPG.Homedir)
	if c.GPG.Homedir == "" {
		if value, ok := os.LookupEnv(envGPGHome); ok {
			c.GPG.Homedir = strings.TrimSpace(value)
		}
	}
	var err error
	if c.GPG.Homedir, err = expandPath(c.GPG.Homedir); err != nil {
		return fmt.Errorf("gpg.homedir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	c.Logging.FileLevel = strings.ToLower(strings.TrimSpace(c.Logging.FileLevel))
	if c.Logging.FileLevel == "" {
		c.Logging.FileLevel = defaultFileLevel
	}
}
