package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"testreel/internal/platform"
	"testreel/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var targetFlag string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check directories and external binaries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			target := platform.Host()
			if targetFlag != "" {
				target, err = platform.Parse(targetFlag)
				if err != nil {
					return err
				}
			}

			results := preflight.RunAll(cmd.Context(), cfg)
			rows := make([][]string, 0, len(results))
			for _, result := range results {
				state := "ok"
				if !result.Passed {
					state = "missing"
				}
				rows = append(rows, []string{result.Name, state, result.Detail})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Host: %s\n", platform.Host())
			if !target.IsHost() {
				fmt.Fprintf(cmd.OutOrStdout(), "Target %s is foreign to this host; staged binary self-checks are skipped.\n", target)
			}
			if platform.InCI() {
				fmt.Fprintln(cmd.OutOrStdout(), "CI environment detected; binary self-check failures are demoted to warnings.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))

			if !preflight.AllPassed(results) {
				return fmt.Errorf("one or more required checks failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&targetFlag, "target", "", "Report for an os/arch target (defaults to the host)")
	return cmd
}
