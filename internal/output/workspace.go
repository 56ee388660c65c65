package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	logFileName  = "main.log"
	lockFileName = ".papeterie.lock"
	pdfBasename  = "papeterie"
)

// ErrLocked reports a working directory already used by another run.
var ErrLocked = errors.New("working directory locked by another run")

// Workspace is the working directory of one run.
type Workspace struct {
	dir     string
	output  string
	lock    *flock.Flock
	closers []io.Closer
}

// NewWorkspace creates a fresh working directory below root (the system
// temp directory when root is empty). runID becomes part of its name.
func NewWorkspace(root, outputFile, runID string) (*Workspace, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o755); err != nil {
			return nil, fmt.Errorf("create work root: %w", err)
		}
	}
	pattern := "papeterie-*"
	if runID = strings.TrimSpace(runID); runID != "" {
		pattern = "papeterie-" + runID + "-*"
	}
	dir, err := os.MkdirTemp(root, pattern)
	if err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	return newWorkspace(dir, outputFile), nil
}

// OpenWorkspace uses dir as working directory, creating it when needed.
func OpenWorkspace(dir, outputFile string) (*Workspace, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("working directory path required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create working directory: %w", err)
	}
	return newWorkspace(dir, outputFile), nil
}

func newWorkspace(dir, outputFile string) *Workspace {
	return &Workspace{
		dir:    dir,
		output: outputFile,
		lock:   flock.New(filepath.Join(dir, lockFileName)),
	}
}

// Lock claims the working directory for this process.
func (w *Workspace) Lock() error {
	ok, err := w.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrLocked, w.dir)
	}
	return nil
}

// Unlock releases the working directory lock.
func (w *Workspace) Unlock() error {
	if !w.lock.Locked() {
		return nil
	}
	return w.lock.Unlock()
}

// Attach registers c to be closed by Cleanup, before the directory is
// removed. The run log is attached this way.
func (w *Workspace) Attach(c io.Closer) {
	if c != nil {
		w.closers = append(w.closers, c)
	}
}

// Cleanup releases the lock, closes attached resources and removes the
// working directory unless keep is set.
func (w *Workspace) Cleanup(keep bool) error {
	if err := w.Unlock(); err != nil {
		return fmt.Errorf("release lock: %w", err)
	}
	var errs []error
	for _, c := range w.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.closers = nil
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close working directory resources: %w", err)
	}
	if keep {
		return nil
	}
	if err := os.RemoveAll(w.dir); err != nil {
		return fmt.Errorf("remove working directory: %w", err)
	}
	return nil
}

// Dir is the working directory.
func (w *Workspace) Dir() string { return w.dir }

// OutputFile is the destination of the final PDF.
func (w *Workspace) OutputFile() string { return w.output }

// LogFile is the run log.
func (w *Workspace) LogFile() string { return w.path(logFileName) }

// TexCollection holds the texified fragments of a single document.
func (w *Workspace) TexCollection() string { return w.path("tex_collection.txt") }

// TexResult is the rendered layout of a single document.
func (w *Workspace) TexResult() string { return w.path(pdfBasename + ".tex") }

// PDFBasename is the compiler job name of the final PDF.
func (w *Workspace) PDFBasename() string { return pdfBasename }

// PDFPath is the final PDF inside the working directory.
func (w *Workspace) PDFPath() string { return w.path(pdfBasename + ".pdf") }

// Indexed returns the naming scheme for recipient idx.
func (w *Workspace) Indexed(idx int) Indexed {
	return Indexed{workspace: w, idx: idx}
}

func (w *Workspace) path(name string) string {
	return filepath.Join(w.dir, name)
}
