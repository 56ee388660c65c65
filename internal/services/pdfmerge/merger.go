// Package pdfmerge concatenates per-recipient PDFs into the final document.
package pdfmerge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"papeterie/internal/logging"
	"papeterie/internal/services"
)

func init() {
	// Keep pdfcpu from creating its configuration directory under $HOME.
	model.ConfigPath = "disable"
}

// Merger concatenates PDFs in the given order.
type Merger struct {
	logger *slog.Logger
}

// New returns a Merger logging to logger.
func New(logger *slog.Logger) *Merger {
	return &Merger{logger: logging.NewComponentLogger(logger, "pdfmerge")}
}

// Merge writes the pages of every input, in order, to output.
func (m *Merger) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return services.Wrap(services.ErrValidation, "pdfmerge", "merge", "no input files", nil)
	}
	for _, path := range inputs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := os.Stat(path); err != nil {
			return services.Wrap(services.ErrArtifactMissing, "pdfmerge", "merge", fmt.Sprintf("input %s unavailable", path), err)
		}
	}
	if err := os.Remove(output); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale output: %w", err)
	}

	m.logger.Info("merging pdfs", logging.Int("count", len(inputs)), logging.String("output", output))
	if err := api.MergeCreateFile(inputs, output, false, model.NewDefaultConfiguration()); err != nil {
		return services.Wrap(services.ErrExternalTool, "pdfmerge", "merge", "", err)
	}
	return nil
}

// PageCount returns the number of pages in the PDF at path.
func PageCount(path string) (int, error) {
	count, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("count pages of %s: %w", path, err)
	}
	return count, nil
}
