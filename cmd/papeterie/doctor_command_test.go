package main

import (
	"testing"
)

func TestDoctorReportsMissingCompiler(t *testing.T) {
	env := setupCLITestEnv(t, cliConfig{latexBinary: "papeterie-no-such-latex"})

	stdout, _, err := runCLI(t, env, "doctor")
	if err == nil {
		t.Fatal("expected doctor to fail without a compiler")
	}
	requireContains(t, err.Error(), "papeterie-no-such-latex")
	requireContains(t, stdout, "failed")
	requireContains(t, stdout, "Config: "+env.configPath)
}

func TestDoctorPassesWithStubbedCompiler(t *testing.T) {
	env := setupCLITestEnv(t, cliConfig{latexBinary: writeStubCompiler(t, t.TempDir())})

	stdout, _, err := runCLI(t, env, "doctor")
	if err != nil {
		t.Fatalf("doctor: %v\n%s", err, stdout)
	}
	requireContains(t, stdout, "All required checks passed")
}
