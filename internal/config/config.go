package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// DefaultsDir holds default.pap, the fallback fragments of the letter command.
	DefaultsDir string `toml:"defaults_dir"`
	// WorkRoot is where working directories are created; empty means the system temp dir.
	WorkRoot string `toml:"work_root"`
}

// Latex contains configuration for the document compiler.
type Latex struct {
	Binary string `toml:"binary"`
}

// GPG contains configuration for signing fragments.
type GPG struct {
	Binary  string `toml:"binary"`
	Homedir string `toml:"homedir"`
	Key     string `toml:"key"`
	Verify  bool   `toml:"verify"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format    string `toml:"format"`
	Level     string `toml:"level"`
	FileLevel string `toml:"file_level"`
}

// Config encapsulates all configuration values for papeterie.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Latex   Latex   `toml:"latex"`
	GPG     GPG     `toml:"gpg"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("papeterie.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the work root when one is configured.
func (c *Config) EnsureDirectories() error {
	if c.Paths.WorkRoot == "" {
		return nil
	}
	if err := os.MkdirAll(c.Paths.WorkRoot, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Paths.WorkRoot, err)
	}
	return nil
}

// DefaultFragmentsFile returns the path of the letter defaults file. When the
// defaults directory is left at its default and holds no default.pap, an
// existing ~/.papeterie/default.pap is used instead.
func (c *Config) DefaultFragmentsFile() string {
	if c.Paths.DefaultsDir == "" {
		return ""
	}
	path := filepath.Join(c.Paths.DefaultsDir, DefaultFragmentsName)
	if fileExists(path) {
		return path
	}
	if standard, err := expandPath(defaultDefaultsDir); err != nil || standard != c.Paths.DefaultsDir {
		return path
	}
	legacy, err := expandPath(legacyDefaultsDir)
	if err != nil {
		return path
	}
	if candidate := filepath.Join(legacy, DefaultFragmentsName); fileExists(candidate) {
		return candidate
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
