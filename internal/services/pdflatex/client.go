package pdflatex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"papeterie/internal/logging"
	"papeterie/internal/services"
)

// DefaultBinary is the compiler executable name.
const DefaultBinary = "pdflatex"

// Compiler defines the behaviour required by the assembly pipeline.
type Compiler interface {
	Compile(ctx context.Context, outDir, basename, source string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec services.Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithLogger routes compiler output to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "pdflatex")
	}
}

// Client wraps pdflatex CLI interactions.
type Client struct {
	binary string
	exec   services.Executor
	logger *slog.Logger
}

// New constructs a pdflatex client.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("pdflatex binary required")
	}
	client := &Client{
		binary: binary,
		exec:   services.CommandExecutor{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Compile runs pdflatex on source, writing outDir/basename.pdf, and returns the
// PDF path.
func (c *Client) Compile(ctx context.Context, outDir, basename, source string) (string, error) {
	if _, err := os.Stat(source); err != nil {
		return "", services.Wrap(services.ErrValidation, "pdflatex", "compile", fmt.Sprintf("input file %s unavailable", source), err)
	}

	args := []string{
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory=" + outDir,
		"-jobname=" + basename,
		source,
	}
	c.logger.Info("running pdflatex",
		logging.String("binary", c.binary),
		logging.Strings("args", args),
	)

	exec := c.exec
	if local, ok := exec.(services.CommandExecutor); ok && local.Dir == "" {
		// Stray auxiliary files end up next to the PDF.
		local.Dir = outDir
		exec = local
	}

	var tail []string
	err := exec.Run(ctx, c.binary, args, func(line string) {
		c.logger.Debug(line)
		tail = append(tail, line)
		if len(tail) > 20 {
			tail = tail[1:]
		}
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "pdflatex", "compile", lastErrorLine(tail), err)
	}

	expected := filepath.Join(outDir, basename+".pdf")
	if _, err := os.Stat(expected); err != nil {
		return "", services.Wrap(services.ErrArtifactMissing, "pdflatex", "compile", fmt.Sprintf("no pdf was generated at %s", expected), nil)
	}
	c.logger.Info("wrote pdf", logging.String("path", expected))
	return expected, nil
}

// lastErrorLine picks the TeX error marker ("! ...") from the output tail, if any.
func lastErrorLine(lines []string) string {
	for i := len(lines) - 1; i >= 0; i-- {
		if strings.HasPrefix(lines[i], "!") {
			return strings.TrimSpace(lines[i])
		}
	}
	return ""
}
