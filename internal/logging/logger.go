package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	slogmulti "github.com/samber/slog-multi"
)

// Options describes logger construction parameters.
type Options struct {
	// Level applies to terminal outputs (stdout, stderr).
	Level string
	// FileLevel applies to file outputs; empty means debug.
	FileLevel string
	// Format selects the file handler: "console" or "json".
	Format      string
	OutputPaths []string
	Development bool
}

// New constructs a slog logger writing to every output path. Log files stay
// open for the lifetime of the process; use Open when they must be closed.
func New(opts Options) (*slog.Logger, error) {
	logger, _, err := Open(opts)
	return logger, err
}

// Open constructs a slog logger writing to every output path and returns a
// closer for the log files it opened. Terminal outputs use the console
// handler; file outputs use the configured format. Several outputs are
// combined with a fan-out handler.
func Open(opts Options) (*slog.Logger, io.Closer, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "console"
	}
	if format != "console" && format != "json" {
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	consoleLevel := parseLevel(opts.Level, slog.LevelInfo)
	fileLevel := parseLevel(opts.FileLevel, slog.LevelDebug)

	paths := dedupe(opts.OutputPaths)
	if len(paths) == 0 {
		paths = []string{"stdout"}
	}

	files := &logFiles{}
	handlers := make([]slog.Handler, 0, len(paths))
	for _, path := range paths {
		switch path {
		case "stdout", "stderr":
			file := os.Stdout
			if path == "stderr" {
				file = os.Stderr
			}
			handlers = append(handlers, newPrettyHandler(file, levelVar(consoleLevel), opts.Development, isTerminal(file)))
		default:
			writer, err := openLogFile(path)
			if err != nil {
				_ = files.Close()
				return nil, nil, err
			}
			files.add(writer)
			lvl := levelVar(fileLevel)
			addSource := opts.Development || fileLevel <= slog.LevelDebug
			if format == "json" {
				handlers = append(handlers, newJSONHandler(writer, lvl, addSource))
			} else {
				handlers = append(handlers, newPrettyHandler(writer, lvl, addSource, false))
			}
		}
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), files, nil
	}
	return slog.New(slogmulti.Fanout(handlers...)), files, nil
}

// NewRunLogger returns a logger for one pipeline run: console output at the
// configured level plus logFile at fileLevel (debug when empty). The closer
// releases logFile.
func NewRunLogger(level, fileLevel, format, logFile string) (*slog.Logger, io.Closer, error) {
	return Open(Options{
		Level:       level,
		FileLevel:   fileLevel,
		Format:      format,
		OutputPaths: []string{"stderr", logFile},
	})
}

func parseLevel(level string, fallback slog.Level) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return fallback
	}
}

func levelVar(level slog.Level) *slog.LevelVar {
	lvl := new(slog.LevelVar)
	lvl.Set(level)
	return lvl
}

func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// logFiles closes the files of one logger once; records logged afterwards
// are dropped by the file handlers.
type logFiles struct {
	mu     sync.Mutex
	files  []*os.File
	closed bool
}

func (l *logFiles) add(file *os.File) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.files = append(l.files, file)
}

func (l *logFiles) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	var errs []error
	for _, file := range l.files {
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openLogFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure log directory: %w", err)
		}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

func isTerminal(file *os.File) bool {
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func newJSONHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	opts := slog.HandlerOptions{
		Level:     lvl,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				if attr.Value.Kind() == slog.KindTime {
					attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
				}
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	}
	return slog.NewJSONHandler(w, &opts)
}
