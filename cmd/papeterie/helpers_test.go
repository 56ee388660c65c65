package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"papeterie/internal/testsupport"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	workRoot    string
	defaultsDir string
}

type cliConfig struct {
	latexBinary string
	gpgKey      string
}

func setupCLITestEnv(t *testing.T, cfg cliConfig) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	home := filepath.Join(base, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	t.Setenv("PAPETERIE_GPG_KEY", "")
	t.Setenv("GNUPGHOME", "")

	if cfg.latexBinary == "" {
		cfg.latexBinary = "pdflatex"
	}
	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "config.toml"),
		workRoot:    filepath.Join(base, "work"),
		defaultsDir: filepath.Join(base, "defaults"),
	}
	content := fmt.Sprintf(
		"[paths]\ndefaults_dir = %q\nwork_root = %q\n\n[latex]\nbinary = %q\n\n[gpg]\nkey = %q\n\n[logging]\nlevel = \"error\"\n",
		env.defaultsDir,
		env.workRoot,
		cfg.latexBinary,
		cfg.gpgKey,
	)
	testsupport.WriteFile(t, env.configPath, content)
	return env
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeStubCompiler installs a pdflatex stand-in that drops a one page PDF
// at -output-directory/-jobname.pdf.
func writeStubCompiler(t *testing.T, dir string) string {
	t.Helper()
	fixture := testsupport.WritePDF(t, filepath.Join(dir, "page.pdf"), 1)
	script := fmt.Sprintf(`#!/bin/sh
for arg in "$@"; do
  case "$arg" in
    -output-directory=*) out="${arg#-output-directory=}" ;;
    -jobname=*) job="${arg#-jobname=}" ;;
  esac
done
cp %q "$out/$job.pdf"
`, fixture)
	path := filepath.Join(dir, "pdflatex-stub")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub compiler: %v", err)
	}
	return path
}

// writeJob lays out an input directory with a job config, a layout and one
// sub-template per entry of templates.
func writeJob(t *testing.T, dir, jobConfig string, templates map[string]string) string {
	t.Helper()
	testsupport.WriteFile(t, filepath.Join(dir, "config.json"), jobConfig)
	testsupport.WriteFile(t, filepath.Join(dir, "papeterie.tex"), "\\documentclass{letter}\nGREETING\n")
	for name, body := range templates {
		testsupport.WriteFile(t, filepath.Join(dir, name), body)
	}
	return dir
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected %q to contain %q", haystack, needle)
	}
}

func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("read %s: %v", dir, err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected %s to be empty, found %d entries", dir, len(entries))
	}
}
