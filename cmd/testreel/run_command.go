package main

import (
	"github.com/spf13/cobra"

	"testreel/internal/display"
	"testreel/internal/launcher"
	"testreel/internal/platform"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run [flags] -- [runner args...]",
		Short: "Run the UI test suite under an isolated display",
		Long: `Run spawns the configured UI test runner with the per-OS virtual display
strategy applied, so automated interaction never disturbs the operator's
screen. Arguments after -- are passed through to the runner unchanged.

The runner's exit code is propagated verbatim; a signal-killed runner is
reported as exit code 1.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger("run")
			if err != nil {
				return err
			}

			passthrough := args
			if at := cmd.ArgsLenAtDash(); at >= 0 {
				passthrough = args[at:]
			}

			controller := display.ForTarget(platform.Host(), cfg, logger)
			result, err := launcher.Run(cmd.Context(), cfg, controller, passthrough, logger)
			if err != nil {
				return err
			}
			if result.ExitCode != 0 {
				return &exitCodeError{code: result.ExitCode}
			}
			return nil
		},
	}
}
