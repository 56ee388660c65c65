package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"papeterie/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PAPETERIE_GPG_KEY", "")
	t.Setenv("GNUPGHOME", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved != filepath.Join(tempHome, ".config", "papeterie", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDefaults := filepath.Join(tempHome, ".config", "papeterie", "defaults")
	if cfg.Paths.DefaultsDir != wantDefaults {
		t.Fatalf("unexpected defaults dir: got %q want %q", cfg.Paths.DefaultsDir, wantDefaults)
	}
	if cfg.DefaultFragmentsFile() != filepath.Join(wantDefaults, "default.pap") {
		t.Fatalf("unexpected defaults file %q", cfg.DefaultFragmentsFile())
	}
	if cfg.Paths.WorkRoot != "" {
		t.Fatalf("expected empty work root, got %q", cfg.Paths.WorkRoot)
	}
	if cfg.Latex.Binary != "pdflatex" {
		t.Fatalf("unexpected latex binary %q", cfg.Latex.Binary)
	}
	if cfg.GPG.Binary != "gpg2" || cfg.GPG.Key != "" || cfg.GPG.Verify {
		t.Fatalf("unexpected gpg defaults %+v", cfg.GPG)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.FileLevel != "debug" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestDefaultFragmentsFileFallsBackToLegacyLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PAPETERIE_GPG_KEY", "")
	t.Setenv("GNUPGHOME", "")
	t.Chdir(t.TempDir())

	legacy := filepath.Join(home, ".papeterie", "default.pap")
	if err := os.MkdirAll(filepath.Dir(legacy), 0o755); err != nil {
		t.Fatalf("mkdir legacy dir: %v", err)
	}
	if err := os.WriteFile(legacy, []byte("CLOSING\nBye\n"), 0o644); err != nil {
		t.Fatalf("write legacy defaults: %v", err)
	}

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got := cfg.DefaultFragmentsFile(); got != legacy {
		t.Fatalf("expected legacy defaults %q, got %q", legacy, got)
	}

	current := filepath.Join(home, ".config", "papeterie", "defaults", "default.pap")
	if err := os.MkdirAll(filepath.Dir(current), 0o755); err != nil {
		t.Fatalf("mkdir defaults dir: %v", err)
	}
	if err := os.WriteFile(current, []byte("CLOSING\nRegards\n"), 0o644); err != nil {
		t.Fatalf("write defaults: %v", err)
	}
	if got := cfg.DefaultFragmentsFile(); got != current {
		t.Fatalf("expected configured defaults %q, got %q", current, got)
	}

	cfg.Paths.DefaultsDir = filepath.Join(home, "elsewhere")
	if got := cfg.DefaultFragmentsFile(); got != filepath.Join(home, "elsewhere", "default.pap") {
		t.Fatalf("explicit defaults dir must not fall back, got %q", got)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("PAPETERIE_GPG_KEY", "")

	configPath := filepath.Join(t.TempDir(), "papeterie.toml")
	content := `
[paths]
defaults_dir = "~/letters"
work_root = "~/work"

[latex]
binary = "/opt/texlive/bin/pdflatex"

[gpg]
key = "ABCDEF01"
verify = true

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution %q exists=%v", resolved, exists)
	}
	if cfg.Paths.DefaultsDir != filepath.Join(tempHome, "letters") {
		t.Fatalf("unexpected defaults dir %q", cfg.Paths.DefaultsDir)
	}
	if cfg.Paths.WorkRoot != filepath.Join(tempHome, "work") {
		t.Fatalf("unexpected work root %q", cfg.Paths.WorkRoot)
	}
	if cfg.Latex.Binary != "/opt/texlive/bin/pdflatex" {
		t.Fatalf("unexpected latex binary %q", cfg.Latex.Binary)
	}
	if cfg.GPG.Key != "ABCDEF01" || !cfg.GPG.Verify {
		t.Fatalf("unexpected gpg section %+v", cfg.GPG)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories returned error: %v", err)
	}
	if info, err := os.Stat(cfg.Paths.WorkRoot); err != nil || !info.IsDir() {
		t.Fatalf("expected work root to exist: %v", err)
	}
}

func TestEnvFallbacks(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAPETERIE_GPG_KEY", " 0xFEED ")
	gnupg := t.TempDir()
	t.Setenv("GNUPGHOME", gnupg)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GPG.Key != "0xFEED" {
		t.Fatalf("expected key from env, got %q", cfg.GPG.Key)
	}
	if cfg.GPG.Homedir != gnupg {
		t.Fatalf("expected homedir from env, got %q", cfg.GPG.Homedir)
	}
}

func TestConfigFileWinsOverEnv(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PAPETERIE_GPG_KEY", "from-env")

	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[gpg]\nkey = \"from-file\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GPG.Key != "from-file" {
		t.Fatalf("expected key from file, got %q", cfg.GPG.Key)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[tmdb]\napi_key = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown section")
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "PAPETERIE_GPG_KEY") {
		t.Fatalf("sample config missing gpg key hint: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.Latex.Binary != "pdflatex" {
		t.Fatalf("unexpected sample latex binary %q", cfg.Latex.Binary)
	}
	if !strings.Contains(cfg.Paths.DefaultsDir, "papeterie") {
		t.Fatalf("expected defaults dir to contain papeterie, got %q", cfg.Paths.DefaultsDir)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log format")
	}

	cfg = config.Default()
	cfg.Logging.Level = "verbose"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid log level")
	}

	cfg = config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}
