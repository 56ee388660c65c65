// Package services defines shared utilities consumed by the assembly pipeline
// and the clients of external tools.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper so callers can classify
//     failures (tool exit, missing artifact, configuration) with errors.Is.
//   - A thin command execution abstraction that makes external binaries
//     (pdflatex, gpg) testable with stub executors.
package services
