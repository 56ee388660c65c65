package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"papeterie/internal/assembly"
	"papeterie/internal/config"
	"papeterie/internal/jobspec"
	"papeterie/internal/layout"
	"papeterie/internal/logging"
	"papeterie/internal/preflight"
	"papeterie/internal/services"
	"papeterie/internal/services/pdflatex"
)

type letterOptions struct {
	inputDir string
	snippets string
	output   string
	defaults string
	keepTmp  bool
}

func newLetterCommand(ctx *commandContext) *cobra.Command {
	var opts letterOptions

	cmd := &cobra.Command{
		Use:   "letter",
		Short: "Typeset a single letter from a fragments file",
		Long: "Read the fragments of one letter from a .pap file, fill gaps from\n" +
			"default.pap in the defaults directory and typeset them with the job's layout.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runLetter(cmd, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.inputDir, "input-dir", "", "Directory with the job configuration and layout")
	flags.StringVar(&opts.snippets, "snippets", "", "File with the letter's fragments")
	flags.StringVar(&opts.output, "output", "", "Destination of the PDF")
	flags.StringVar(&opts.defaults, "defaults", "", "Directory holding default.pap (overrides paths.defaults_dir)")
	flags.BoolVar(&opts.keepTmp, "keep-tmp", false, "Keep the working directory after a successful run")
	return cmd
}

func runLetter(cmd *cobra.Command, cfg *config.Config, opts letterOptions) error {
	if err := resolveInputs(cmd,
		requiredInput{flag: "input-dir", label: "Input directory", value: &opts.inputDir, kind: inputDir},
		requiredInput{flag: "snippets", label: "Snippets file", value: &opts.snippets, kind: inputFile},
		requiredInput{flag: "output", label: "Output file", value: &opts.output, kind: outputPath},
	); err != nil {
		return err
	}
	defaultsFile, err := defaultFragmentsFile(cfg, opts.defaults)
	if err != nil {
		return err
	}

	spec, err := jobspec.Load(opts.inputDir)
	if err != nil {
		return err
	}
	if err := preflight.ForRun(cfg, false, nil, map[string]string{
		"Layout template": spec.Template,
	}); err != nil {
		return err
	}
	tmpl, err := layout.Load(spec.Template)
	if err != nil {
		return err
	}

	env, err := newRunEnv(cmd, cfg, "", opts.output)
	if err != nil {
		return err
	}
	set, err := assembly.LetterSnippets(spec.Names(), defaultsFile, opts.snippets, env.logger)
	if err != nil {
		return env.abort(err)
	}
	compiler, err := pdflatex.New(cfg.Latex.Binary, pdflatex.WithLogger(env.logger))
	if err != nil {
		return env.abort(services.Wrap(services.ErrConfiguration, "letter", "compiler", "init pdflatex", err))
	}
	pipeline, err := assembly.New(assembly.Config{
		InputDir:         spec.InputDir,
		Layout:           tmpl,
		Compiler:         compiler,
		KeepIntermediate: opts.keepTmp,
		Logger:           env.logger,
	})
	if err != nil {
		return env.abort(err)
	}

	report, err := pipeline.RunSingle(logging.WithRunID(cmd.Context(), env.id), env.workspace, set)
	if err != nil {
		return env.failed(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Wrote %s\n", report.Output)
	if report.Kept {
		fmt.Fprintf(out, "Working directory kept at %s\n", report.WorkDir)
	}
	return nil
}

// defaultFragmentsFile resolves default.pap from the --defaults override or
// the configured defaults directory.
func defaultFragmentsFile(cfg *config.Config, override string) (string, error) {
	override = strings.TrimSpace(override)
	if override == "" {
		return cfg.DefaultFragmentsFile(), nil
	}
	dir, err := config.ExpandPath(override)
	if err != nil {
		return "", fmt.Errorf("--defaults: %w", err)
	}
	return filepath.Join(dir, config.DefaultFragmentsName), nil
}
