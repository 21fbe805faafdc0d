package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"testreel/internal/runledger"
)

func newRunsCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List collected runs from the run ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.Ledger.Enabled {
				return fmt.Errorf("run ledger is disabled in configuration")
			}

			ledger, err := runledger.Open(cfg.LedgerPath())
			if err != nil {
				return err
			}
			defer ledger.Close()

			records, err := ledger.ListRuns(cmd.Context(), limitFlag)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, rec := range records {
				compiled := ""
				if rec.CombinedVideoPath != "" {
					compiled = "yes"
				}
				rows = append(rows, []string{
					rec.RunDirectoryName,
					rec.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					strconv.Itoa(rec.VideoCount),
					strconv.Itoa(rec.FailedCount),
					compiled,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Collected", "Videos", "Failed", "Compiled"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 20, "Maximum number of runs to list (0 for all)")
	return cmd
}
