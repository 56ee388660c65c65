package preflight

import (
	"context"
	"errors"
	"fmt"

	"papeterie/internal/config"
	"papeterie/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
	// Optional results do not fail a run.
	Optional bool
}

// RunAll executes every check the doctor command reports.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	var results []Result

	for _, status := range CheckSystemDeps(cfg, cfg.GPG.Key != "") {
		results = append(results, FromStatus(status))
	}

	if cfg.Paths.WorkRoot != "" {
		results = append(results, CheckDirectoryAccess("Work root", cfg.Paths.WorkRoot))
	}

	defaults := CheckDirectoryAccess("Defaults directory", cfg.Paths.DefaultsDir)
	defaults.Optional = true
	results = append(results, defaults)

	if cfg.GPG.Key != "" {
		results = append(results, CheckSigningKey(ctx, cfg, nil))
	}
	return results
}

// ForRun checks what a run needs: the binaries, and readable input paths.
// Paths map a display name to the file or directory to check.
func ForRun(cfg *config.Config, signing bool, dirs, files map[string]string) error {
	var results []Result
	for _, status := range CheckSystemDeps(cfg, signing) {
		results = append(results, FromStatus(status))
	}
	for name, path := range dirs {
		results = append(results, CheckReadableDirectory(name, path))
	}
	for name, path := range files {
		results = append(results, CheckReadableFile(name, path))
	}
	return Failed(results)
}

// FromStatus converts a dependency status into a check result.
func FromStatus(status deps.Status) Result {
	detail := status.Detail
	if status.Available {
		detail = status.Path
	}
	return Result{
		Name:     status.Name,
		Passed:   status.Available,
		Detail:   detail,
		Optional: status.Optional,
	}
}

// Failed joins the details of every failed, non-optional result.
func Failed(results []Result) error {
	var errs []error
	for _, result := range results {
		if result.Passed || result.Optional {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %s", result.Name, result.Detail))
	}
	return errors.Join(errs...)
}
