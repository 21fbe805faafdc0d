package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"testreel/internal/config"
	"testreel/internal/display"
	"testreel/internal/logging"
	"testreel/internal/platform"
)

// Result reports how the test runner ended.
type Result struct {
	ExitCode int
}

// Run spawns the UI test runner under the display controller's session and
// waits for it to finish. The controller's environment overrides are merged
// on top of the current process environment and passthrough args are
// appended to the configured runner arguments.
//
// Teardown runs exactly once on every exit path: normal return, interrupt,
// terminate, or panic. The runner's exit code is propagated verbatim; a
// signal-killed runner is reported as exit code 1 with a logged warning so
// it can never masquerade as success.
func Run(ctx context.Context, cfg *config.Config, controller display.Controller, passthrough []string, logger *slog.Logger) (Result, error) {
	if cfg == nil {
		return Result{ExitCode: 1}, errors.New("config is required")
	}
	if controller == nil {
		controller = display.ForTarget(platform.Host(), cfg, logger)
	}
	if logger == nil {
		logger = logging.Discard()
	}

	runnerPath, err := exec.LookPath(cfg.Runner.Command)
	if err != nil {
		return Result{ExitCode: 1}, fmt.Errorf("locate test runner %q: %w", cfg.Runner.Command, err)
	}
	if err := platform.ValidateBinary(ctx, platform.Host(), runnerPath, logger); err != nil {
		return Result{ExitCode: 1}, err
	}

	// Interrupt and terminate cancel the context, which kills the child and
	// lets this function unwind through the deferred teardown below. The
	// same deferred call covers normal return and panic, and the sync.Once
	// keeps all paths to a single teardown.
	signalCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var teardownOnce sync.Once
	teardown := func() { teardownOnce.Do(controller.Teardown) }
	defer teardown()

	session := controller.Setup(signalCtx)

	runCtx := signalCtx
	if cfg.Runner.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(signalCtx, time.Duration(cfg.Runner.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	argv := buildArgv(session, runnerPath, cfg.Runner.Args, passthrough)
	cmd := exec.CommandContext(runCtx, argv[0], argv[1:]...)
	cmd.Env = mergeEnv(os.Environ(), session.Env)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	configureProcAttrs(cmd)

	logger.Info("launching test runner",
		logging.String("command", argv[0]),
		logging.Int("args", len(argv)-1),
		logging.Bool("wrapped", len(session.Wrapper) > 0),
	)

	runErr := cmd.Run()
	if runErr == nil {
		return Result{ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		code := exitErr.ExitCode()
		if code < 0 {
			// Killed by a signal (including our own context cancel). Never
			// report a signal death as success.
			logger.Warn("test runner terminated by signal, reporting failure",
				logging.Error(runErr),
			)
			return Result{ExitCode: 1}, nil
		}
		return Result{ExitCode: code}, nil
	}
	return Result{ExitCode: 1}, fmt.Errorf("run test runner: %w", runErr)
}

// buildArgv assembles wrapper prefix, runner binary, configured args, and
// passthrough args in that order.
func buildArgv(session display.Session, runnerPath string, configured, passthrough []string) []string {
	argv := make([]string, 0, len(session.Wrapper)+1+len(configured)+len(passthrough))
	argv = append(argv, session.Wrapper...)
	argv = append(argv, runnerPath)
	argv = append(argv, configured...)
	argv = append(argv, passthrough...)
	return argv
}

// mergeEnv layers overrides on top of base. Later entries win in exec's
// environment handling, so appending is sufficient, but replacing in place
// keeps the child's environment tidy for debugging.
func mergeEnv(base []string, overrides map[string]string) []string {
	if len(overrides) == 0 {
		return base
	}
	merged := make([]string, 0, len(base)+len(overrides))
	replaced := make(map[string]struct{}, len(overrides))
	for _, kv := range base {
		key := kv
		if idx := strings.IndexByte(kv, '='); idx >= 0 {
			key = kv[:idx]
		}
		if value, ok := overrides[key]; ok {
			merged = append(merged, key+"="+value)
			replaced[key] = struct{}{}
			continue
		}
		merged = append(merged, kv)
	}
	for key, value := range overrides {
		if _, ok := replaced[key]; ok {
			continue
		}
		merged = append(merged, key+"="+value)
	}
	return merged
}
