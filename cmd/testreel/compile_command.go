package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"testreel/internal/compiler"
	"testreel/internal/deps"
	"testreel/internal/logging"
	"testreel/internal/runledger"
	"testreel/internal/runs"
)

func newCompileCommand(ctx *commandContext) *cobra.Command {
	var runDirFlag string
	var manifestFlag string
	var outputFlag string
	var introSeconds float64
	var failedSeconds float64

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile a collected run into one annotated video",
		Long: `Compile resolves a run (explicit flags, then the latest-run pointer, then
the newest run directory), synthesizes one segment per manifest entry, and
concatenates them in manifest order. An empty manifest exits 0 with nothing
to do.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger("compile")
			if err != nil {
				return err
			}

			statuses := deps.CheckBinaries([]deps.Requirement{
				{Name: "FFmpeg", Command: cfg.Video.FFmpeg, Description: "Segment synthesis and concatenation"},
				{Name: "FFprobe", Command: cfg.Video.FFprobe, Description: "Clip duration and geometry inspection", Optional: true},
			})
			if missing := deps.MissingRequired(statuses); len(missing) > 0 {
				return fmt.Errorf("missing required binaries: %s", strings.Join(missing, ", "))
			}

			sel, err := runs.Resolve(cfg.Paths.RunsRoot, runDirFlag, manifestFlag, logger)
			if err != nil {
				if errors.Is(err, runs.ErrNoRuns) {
					fmt.Fprintln(cmd.OutOrStdout(), "No collected runs found; nothing to compile.")
					return nil
				}
				return err
			}

			comp := compiler.New(cfg, logger)
			outputPath, err := comp.Compile(cmd.Context(), sel, compiler.Options{
				IntroSeconds:  introSeconds,
				FailedSeconds: failedSeconds,
				OutputPath:    outputFlag,
			})
			if err != nil {
				if errors.Is(err, compiler.ErrEmptyManifest) {
					fmt.Fprintln(cmd.OutOrStdout(), "Manifest is empty; nothing to compile.")
					return nil
				}
				return err
			}

			if cfg.Ledger.Enabled {
				markCompiled(cmd, cfg.LedgerPath(), sel.Manifest.RunDirectoryName, outputPath, logger)
			}

			fmt.Fprintln(cmd.OutOrStdout(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&runDirFlag, "run-dir", "", "Run directory to compile (overrides latest-run resolution)")
	cmd.Flags().StringVar(&manifestFlag, "manifest", "", "Manifest path to compile (overrides run directory resolution)")
	cmd.Flags().StringVar(&outputFlag, "output", "", "Combined video output path")
	cmd.Flags().Float64Var(&introSeconds, "intro-seconds", 0, "Intro card duration (non-positive uses the default)")
	cmd.Flags().Float64Var(&failedSeconds, "failed-seconds", 0, "Failed card duration (non-positive uses the default)")
	return cmd
}

func markCompiled(cmd *cobra.Command, ledgerPath, runName, outputPath string, logger *slog.Logger) {
	ledger, err := runledger.Open(ledgerPath)
	if err != nil {
		logger.Warn("open run ledger", logging.Error(err))
		return
	}
	defer ledger.Close()
	if err := ledger.MarkCompiled(cmd.Context(), runName, outputPath); err != nil {
		logger.Warn("mark run compiled in ledger", logging.Error(err))
	}
}
