package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"papeterie/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external programs, directories and the signing key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{result.Name, checkStatus(result), yesNo(!result.Optional), result.Detail})
			}

			out := cmd.OutOrStdout()
			if ctx.configPath != "" {
				fmt.Fprintf(out, "Config: %s\n", ctx.configPath)
			}
			fmt.Fprintln(out, renderTable([]tableColumn{
				{header: "Check"},
				{header: "Status"},
				{header: "Required"},
				{header: "Detail", wrap: true},
			}, rows))

			if err := preflight.Failed(results); err != nil {
				return fmt.Errorf("doctor found problems:\n%w", err)
			}
			fmt.Fprintln(out, "All required checks passed")
			return nil
		},
	}
}

func checkStatus(result preflight.Result) string {
	switch {
	case result.Passed:
		return "ok"
	case result.Optional:
		return "warning"
	default:
		return "failed"
	}
}
