package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"testreel/internal/collector"
	"testreel/internal/config"
	"testreel/internal/logging"
	"testreel/internal/runledger"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var rawRootFlag string
	var runsRootFlag string

	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect test recordings into a manifest-described run directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger("collect")
			if err != nil {
				return err
			}
			if rawRootFlag != "" {
				expanded, err := config.ExpandPath(rawRootFlag)
				if err != nil {
					return err
				}
				cfg.Paths.RawArtifactsRoot = expanded
			}
			if runsRootFlag != "" {
				expanded, err := config.ExpandPath(runsRootFlag)
				if err != nil {
					return err
				}
				cfg.Paths.RunsRoot = expanded
			}

			result, err := collector.Collect(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			if result.Manifest == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "No video artifacts found; nothing collected.")
				return nil
			}

			if cfg.Ledger.Enabled {
				recordRun(cmd, cfg.LedgerPath(), result, logger)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Collected %d video(s) into %s\n",
				result.Manifest.VideoCount, result.Manifest.RunDirectoryPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&rawRootFlag, "raw-root", "", "Raw artifacts root (overrides config)")
	cmd.Flags().StringVar(&runsRootFlag, "runs-root", "", "Destination runs root (overrides config)")
	return cmd
}

// recordRun appends the collection to the run ledger. Strictly best-effort;
// the manifest on disk is the source of truth.
func recordRun(cmd *cobra.Command, ledgerPath string, result collector.Result, logger *slog.Logger) {
	ledger, err := runledger.Open(ledgerPath)
	if err != nil {
		logger.Warn("open run ledger", logging.Error(err))
		return
	}
	defer ledger.Close()
	if err := ledger.RecordRun(cmd.Context(), result.Manifest); err != nil {
		logger.Warn("record run in ledger", logging.Error(err))
	}
}
