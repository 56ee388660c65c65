package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"papeterie/internal/assembly"
	"papeterie/internal/config"
	"papeterie/internal/jobspec"
	"papeterie/internal/logging"
)

type snippetsOptions struct {
	inputDir string
	snippets string
	defaults string
}

func newSnippetsCommand(ctx *commandContext) *cobra.Command {
	var opts snippetsOptions

	cmd := &cobra.Command{
		Use:   "snippets",
		Short: "Show the fragments a letter would be typeset with",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runSnippets(cmd, cfg, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.inputDir, "input-dir", "", "Directory with the job configuration")
	flags.StringVar(&opts.snippets, "snippets", "", "File with the letter's fragments")
	flags.StringVar(&opts.defaults, "defaults", "", "Directory holding default.pap (overrides paths.defaults_dir)")
	return cmd
}

func runSnippets(cmd *cobra.Command, cfg *config.Config, opts snippetsOptions) error {
	if err := resolveInputs(cmd,
		requiredInput{flag: "input-dir", label: "Input directory", value: &opts.inputDir, kind: inputDir},
		requiredInput{flag: "snippets", label: "Snippets file", value: &opts.snippets, kind: inputFile},
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

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	set, err := assembly.LetterSnippets(spec.Names(), defaultsFile, opts.snippets, logger)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, set.Len())
	for _, name := range set.Names() {
		text, _ := set.Get(name)
		lines := strconv.Itoa(strings.Count(text, "\n") + 1)
		rows = append(rows, []string{name, lines, text})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable([]tableColumn{
		{header: "Name"},
		{header: "Lines", align: alignRight},
		{header: "Text", wrap: true},
	}, rows))
	return nil
}
