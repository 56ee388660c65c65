// Package logging assembles structured slog loggers and formatting helpers used
// across papeterie.
//
// It owns the console and JSON handlers, fans a single logger out to the
// terminal and the per-run main.log, and exposes context-aware helpers so the
// assembly pipeline can tag log lines with the run ID, recipient index, and
// stage. The package also provides a no-op logger for tests and wiring code
// that cannot fail.
package logging
