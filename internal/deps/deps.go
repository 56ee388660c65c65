// Package deps checks that the external programs papeterie shells out to
// are installed.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program papeterie relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a dependency.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	// Path is the resolved executable when Available.
	Path   string
	Detail string
}

// Requirements lists the programs a run needs: the compiler always, gpg only
// when fragments are signed.
func Requirements(latexBinary, gpgBinary string, signing bool) []Requirement {
	return []Requirement{
		{
			Name:        "pdflatex",
			Command:     latexBinary,
			Description: "Required to compile documents",
		},
		{
			Name:        "GnuPG",
			Command:     gpgBinary,
			Description: "Required to sign fragments",
			Optional:    !signing,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		path, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Available = true
		status.Path = path
		results = append(results, status)
	}
	return results
}

// Missing returns an error naming every required dependency that is unavailable.
func Missing(statuses []Status) error {
	var errs []error
	for _, status := range statuses {
		if status.Available || status.Optional {
			continue
		}
		errs = append(errs, fmt.Errorf("%s: %s", status.Name, status.Detail))
	}
	return errors.Join(errs...)
}
