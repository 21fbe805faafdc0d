package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"testreel/internal/logging"
)

const selfCheckTimeout = 8 * time.Second

// ciEnvVars are environment signals recognized as "running under CI". Some
// CI sandboxes block execution of freshly staged binaries, so a failed
// self-check is demoted to a warning when any of these is set.
var ciEnvVars = []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "BUILDKITE", "JENKINS_URL"}

// InCI reports whether a recognized CI environment signal is present.
func InCI() bool {
	for _, name := range ciEnvVars {
		if strings.TrimSpace(os.Getenv(name)) != "" {
			return true
		}
	}
	return false
}

// ValidateBinary runs a basic self-check on a staged binary for the given
// target. On a foreign target the check is skipped (nothing to execute).
// A failed check is fatal in interactive use and a logged warning under CI.
func ValidateBinary(ctx context.Context, target Target, path string, logger *slog.Logger) error {
	if !target.IsHost() {
		if logger != nil {
			logger.Debug("skipping binary self-check for foreign target",
				logging.String("target", target.String()),
				logging.String("binary", path),
			)
		}
		return nil
	}

	checkCtx, cancel := context.WithTimeout(ctx, selfCheckTimeout)
	defer cancel()

	cmd := exec.CommandContext(checkCtx, path, "--version")
	output, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	detail := strings.TrimSpace(string(output))
	if InCI() {
		if logger != nil {
			logger.Warn("binary self-check failed under CI, continuing",
				logging.String("binary", path),
				logging.String("output", detail),
				logging.Error(err),
			)
		}
		return nil
	}
	if detail != "" {
		return fmt.Errorf("binary self-check failed for %s: %w: %s", path, err, detail)
	}
	return fmt.Errorf("binary self-check failed for %s: %w", path, err)
}
