package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"papeterie/internal/config"
	"papeterie/internal/logging"
	"papeterie/internal/output"
	"papeterie/internal/preflight"
)

type pathKind int

const (
	inputFile pathKind = iota
	inputDir
	// outputPath is only expanded; it does not need to exist yet.
	outputPath
)

// requiredInput is a path flag that must be set; inputs must be readable.
type requiredInput struct {
	flag  string
	label string
	value *string
	kind  pathKind
}

// resolveInputs expands every input path in place and checks it. Failures
// print the command usage, like a missing flag.
func resolveInputs(cmd *cobra.Command, inputs ...requiredInput) error {
	var missing []string
	for _, in := range inputs {
		if strings.TrimSpace(*in.value) == "" {
			missing = append(missing, "--"+in.flag)
		}
	}
	if len(missing) > 0 {
		return usageError(cmd, fmt.Errorf("required flag(s) %s not set", strings.Join(missing, ", ")))
	}

	results := make([]preflight.Result, 0, len(inputs))
	for _, in := range inputs {
		expanded, err := config.ExpandPath(strings.TrimSpace(*in.value))
		if err != nil {
			return usageError(cmd, fmt.Errorf("--%s: %w", in.flag, err))
		}
		*in.value = expanded
		switch in.kind {
		case inputDir:
			results = append(results, preflight.CheckReadableDirectory(in.label, expanded))
		case inputFile:
			results = append(results, preflight.CheckReadableFile(in.label, expanded))
		}
	}
	if err := preflight.Failed(results); err != nil {
		return usageError(cmd, err)
	}
	return nil
}

func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	return err
}

// runEnv is the working directory and logger of one command invocation.
type runEnv struct {
	id        string
	workspace *output.Workspace
	logger    *slog.Logger
	logFile   io.Closer
}

func newRunEnv(cmd *cobra.Command, cfg *config.Config, workDir, outputFile string) (*runEnv, error) {
	id := uuid.NewString()

	var (
		ws  *output.Workspace
		err error
	)
	if workDir != "" {
		expanded, expandErr := config.ExpandPath(workDir)
		if expandErr != nil {
			return nil, fmt.Errorf("--work-dir: %w", expandErr)
		}
		ws, err = output.OpenWorkspace(expanded, outputFile)
	} else {
		ws, err = output.NewWorkspace(cfg.Paths.WorkRoot, outputFile, id)
	}
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.NewRunLogger(cfg.Logging.Level, cfg.Logging.FileLevel, cfg.Logging.Format, ws.LogFile())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	ws.Attach(logFile)
	logger = logger.With(logging.String(logging.FieldRunID, id))

	fmt.Fprintf(cmd.OutOrStdout(), "Log file: %s\n", ws.LogFile())
	logger.Info("working directory ready",
		logging.String("work_dir", ws.Dir()),
		logging.String("output", outputFile),
	)
	return &runEnv{id: id, workspace: ws, logger: logger, logFile: logFile}, nil
}

// abort reports a failure that happened before the pipeline took over the
// working directory.
func (e *runEnv) abort(err error) error {
	e.logger.Error("run aborted", logging.Error(err))
	return e.failed(err)
}

// failed closes the run log and points at the kept working directory.
func (e *runEnv) failed(err error) error {
	_ = e.logFile.Close()
	return fmt.Errorf("%w (working directory kept at %s)", err, e.workspace.Dir())
}
