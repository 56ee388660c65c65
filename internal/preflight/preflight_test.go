package preflight

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"papeterie/internal/config"
	"papeterie/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
	if !CheckReadableFile("test", f).Passed {
		t.Fatal("expected readable file check to pass")
	}
	if CheckReadableFile("test", filepath.Dir(f)).Passed {
		t.Fatal("expected readable file check to fail for a directory")
	}
}

type stubLister struct {
	err error
}

func (s stubLister) HasSecretKey(context.Context, string) error { return s.err }

func TestCheckSigningKey(t *testing.T) {
	cfg := config.Default()
	if result := CheckSigningKey(context.Background(), &cfg, nil); !result.Passed || !result.Optional {
		t.Fatalf("expected unconfigured key to pass as optional, got %#v", result)
	}

	cfg.GPG.Key = "ABCDEF12"
	if result := CheckSigningKey(context.Background(), &cfg, stubLister{}); !result.Passed {
		t.Fatalf("expected pass, got %#v", result)
	}
	result := CheckSigningKey(context.Background(), &cfg, stubLister{err: errors.New("no secret key")})
	if result.Passed || result.Detail != "no secret key" {
		t.Fatalf("expected failure, got %#v", result)
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil); results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MissingDefaultsIsOptional(t *testing.T) {
	t.Setenv("PATH", "")
	cfg := config.Default()
	cfg.Paths.DefaultsDir = filepath.Join(t.TempDir(), "absent")
	cfg.Paths.WorkRoot = t.TempDir()

	results := RunAll(context.Background(), &cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
	}
	if got := strings.Join(names, ","); got != "pdflatex,GnuPG,Work root,Defaults directory" {
		t.Fatalf("unexpected checks %s", got)
	}
	err := Failed(results)
	if err == nil || !strings.Contains(err.Error(), "pdflatex") {
		t.Fatalf("expected pdflatex failure, got %v", err)
	}
	if strings.Contains(err.Error(), "Defaults") || strings.Contains(err.Error(), "GnuPG") {
		t.Fatalf("optional checks must not fail the run: %v", err)
	}
}

func TestRunAll_StubbedSigningSetup(t *testing.T) {
	cfg := testsupport.NewConfig(t,
		testsupport.WithStubbedBinaries(),
		testsupport.WithGPGKey("ABCDEF12"),
		testsupport.WithDefaultFragments("CLOSING\nKind regards\n"),
	)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	names := make([]string, 0, len(results))
	for _, r := range results {
		names = append(names, r.Name)
		if !r.Passed {
			t.Fatalf("expected %s to pass, got %q", r.Name, r.Detail)
		}
	}
	if got := strings.Join(names, ","); got != "pdflatex,GnuPG,Work root,Defaults directory,Signing key" {
		t.Fatalf("unexpected checks %s", got)
	}
}

func TestForRun(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries("pdflatex"))
	t.Setenv("PATH", filepath.Join(testsupport.BaseDir(cfg), "bin"))

	input := filepath.Join(testsupport.BaseDir(cfg), "input")
	recipients := testsupport.WriteFile(t, filepath.Join(input, "recipients.csv"), "A\n1\n")

	if err := ForRun(cfg, false, map[string]string{"Input directory": input}, map[string]string{"Recipients": recipients}); err != nil {
		t.Fatalf("ForRun returned error: %v", err)
	}
	err := ForRun(cfg, true, nil, map[string]string{"Recipients": filepath.Join(input, "absent.csv")})
	if err == nil || !strings.Contains(err.Error(), "GnuPG") || !strings.Contains(err.Error(), "Recipients") {
		t.Fatalf("expected gpg and recipients failures, got %v", err)
	}
}
