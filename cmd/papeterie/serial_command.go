package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"papeterie/internal/assembly"
	"papeterie/internal/config"
	"papeterie/internal/jobspec"
	"papeterie/internal/layout"
	"papeterie/internal/logging"
	"papeterie/internal/preflight"
	"papeterie/internal/recipient"
	"papeterie/internal/render"
	"papeterie/internal/services"
	"papeterie/internal/services/gpg"
	"papeterie/internal/services/pdflatex"
	"papeterie/internal/services/pdfmerge"
)

type serialOptions struct {
	recipients string
	inputDir   string
	output     string
	gpgKey     string
	gpgHomedir string
	workDir    string
	keepTmp    bool
}

func newSerialCommand(ctx *commandContext) *cobra.Command {
	var opts serialOptions

	cmd := &cobra.Command{
		Use:   "serial",
		Short: "Assemble one letter per recipient into a single PDF",
		Long: "Render the fragments of every recipient in the CSV file through the job's\n" +
			"sub-templates, sign the configured fragments, typeset one document per\n" +
			"recipient and concatenate them in file order.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runSerial(cmd, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.recipients, "recipients", "", "CSV file with one recipient per row")
	flags.StringVar(&opts.inputDir, "input-dir", "", "Directory with the job configuration, layout and sub-templates")
	flags.StringVar(&opts.output, "output", "", "Destination of the combined PDF")
	flags.StringVar(&opts.gpgKey, "gpg-key", "", "Key used for signed fragments (overrides gpg.key)")
	flags.StringVar(&opts.gpgHomedir, "gpg-homedir", "", "gpg home directory (overrides gpg.homedir)")
	flags.StringVar(&opts.workDir, "work-dir", "", "Use this working directory instead of a fresh one; it is always kept")
	flags.BoolVar(&opts.keepTmp, "keep-tmp", false, "Keep the working directory after a successful run")
	return cmd
}

func runSerial(cmd *cobra.Command, base *config.Config, opts serialOptions) error {
	if err := resolveInputs(cmd,
		requiredInput{flag: "recipients", label: "Recipients file", value: &opts.recipients, kind: inputFile},
		requiredInput{flag: "input-dir", label: "Input directory", value: &opts.inputDir, kind: inputDir},
		requiredInput{flag: "output", label: "Output file", value: &opts.output, kind: outputPath},
	); err != nil {
		return err
	}

	cfg, err := serialConfig(base, opts)
	if err != nil {
		return err
	}

	spec, err := jobspec.Load(opts.inputDir)
	if err != nil {
		return err
	}
	if spec.Signed() && cfg.GPG.Key == "" {
		return services.Wrap(services.ErrConfiguration, "serial", "signing",
			"signed snippets configured but no gpg key given (use --gpg-key, gpg.key or PAPETERIE_GPG_KEY)", nil)
	}
	if err := preflight.ForRun(cfg, spec.Signed(), nil, map[string]string{
		"Layout template": spec.Template,
	}); err != nil {
		return err
	}
	if spec.Signed() {
		if result := preflight.CheckSigningKey(cmd.Context(), cfg, nil); !result.Passed {
			return services.Wrap(services.ErrConfiguration, "serial", "signing", result.Detail, nil)
		}
	}

	records, err := recipient.Load(opts.recipients)
	if err != nil {
		return err
	}
	tmpl, err := layout.Load(spec.Template)
	if err != nil {
		return err
	}
	templates, err := render.LoadSubTemplates(spec.Snippets)
	if err != nil {
		return err
	}

	env, err := newRunEnv(cmd, cfg, opts.workDir, opts.output)
	if err != nil {
		return err
	}
	env.logger.Info("serial job loaded",
		logging.String("job_spec", spec.Source),
		logging.String("recipients_file", opts.recipients),
		logging.Int("recipients", len(records)),
		logging.Strings("snippets", spec.Names()),
		logging.Bool("signed", spec.Signed()),
	)

	pipeline, err := buildSerialPipeline(cfg, spec, tmpl, templates, env, opts)
	if err != nil {
		return env.abort(err)
	}

	runCtx := logging.WithRunID(cmd.Context(), env.id)
	report, err := pipeline.RunSerial(runCtx, env.workspace, records)
	if err != nil {
		return env.failed(err)
	}

	out := cmd.OutOrStdout()
	pages, err := pdfmerge.PageCount(report.Output)
	if err != nil {
		env.logger.Warn("page count unavailable", logging.Error(err))
		fmt.Fprintf(out, "Wrote %s (%d recipients)\n", report.Output, len(report.Recipients))
	} else {
		fmt.Fprintf(out, "Wrote %s (%d recipients, %d pages)\n", report.Output, len(report.Recipients), pages)
	}
	if report.Kept {
		fmt.Fprintf(out, "Working directory kept at %s\n", report.WorkDir)
	}
	return nil
}

// serialConfig applies the command-line overrides to a copy of base.
func serialConfig(base *config.Config, opts serialOptions) (*config.Config, error) {
	cfg := *base
	if key := strings.TrimSpace(opts.gpgKey); key != "" {
		cfg.GPG.Key = key
	}
	if home := strings.TrimSpace(opts.gpgHomedir); home != "" {
		expanded, err := config.ExpandPath(home)
		if err != nil {
			return nil, fmt.Errorf("--gpg-homedir: %w", err)
		}
		cfg.GPG.Homedir = expanded
	}
	return &cfg, nil
}

func buildSerialPipeline(cfg *config.Config, spec *jobspec.Spec, tmpl *layout.Template, templates render.SubTemplates, env *runEnv, opts serialOptions) (*assembly.Pipeline, error) {
	renderer, err := render.New(templates, env.logger)
	if err != nil {
		return nil, err
	}
	compiler, err := pdflatex.New(cfg.Latex.Binary, pdflatex.WithLogger(env.logger))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "serial", "compiler", "init pdflatex", err)
	}

	var signer assembly.Signer
	if spec.Signed() {
		client, err := gpg.New(cfg.GPG.Binary, cfg.GPG.Homedir, gpg.WithLogger(env.logger))
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "serial", "signing", "init gpg", err)
		}
		s, err := gpg.NewSigner(client, cfg.GPG.Key, env.workspace.Dir(), gpg.WithVerification(cfg.GPG.Verify))
		if err != nil {
			return nil, err
		}
		signer = s
	}

	return assembly.New(assembly.Config{
		InputDir:         spec.InputDir,
		Layout:           tmpl,
		Renderer:         renderer,
		SignedSnippets:   spec.SignedSnippets,
		Signer:           signer,
		Compiler:         compiler,
		Concatenator:     pdfmerge.New(env.logger),
		KeepIntermediate: opts.keepTmp || opts.workDir != "",
		Logger:           env.logger,
	})
}
