package display

import (
	"context"
	"log/slog"
	"strconv"

	"testreel/internal/config"
	"testreel/internal/logging"
	"testreel/internal/platform"
)

// Environment variable names forming the contract with the test runner.
// The runner positions application windows offscreen when EnvOffscreen is
// set; the coordinates are advisory.
const (
	EnvOffscreen      = "TESTREEL_OFFSCREEN"
	EnvWindowX        = "TESTREEL_WINDOW_X"
	EnvWindowY        = "TESTREEL_WINDOW_Y"
	EnvVirtualDesktop = "TESTREEL_VIRTUAL_DESKTOP"
)

// Session carries what a controller prepared for one launcher invocation:
// environment overrides merged over the process environment, and an optional
// command wrapper prefix (the Linux framebuffer path).
type Session struct {
	Env     map[string]string
	Wrapper []string
}

// Controller isolates automated UI interaction from the operator's screen.
//
// Setup never fails: every variant degrades through its fallback tiers and
// always hands back a usable session. Teardown is idempotent and swallows
// its own errors; it must be called exactly once per session, which callers
// enforce with a one-shot guard.
type Controller interface {
	Setup(ctx context.Context) Session
	Teardown()
}

// ForTarget selects the controller variant for the given target. The choice
// is a pure function of target and configuration, decided once at startup.
func ForTarget(target platform.Target, cfg *config.Config, logger *slog.Logger) Controller {
	if logger == nil {
		logger = logging.Discard()
	}
	if cfg == nil || cfg.Display.Mode == "none" {
		return &noopController{}
	}
	if cfg.Display.Mode == "offscreen" {
		return &offscreenController{cfg: cfg, logger: logger, reason: "display.mode=offscreen"}
	}
	switch target.OS {
	case "windows":
		return &windowsController{cfg: cfg, logger: logger}
	case "darwin":
		// The macOS virtual-display API is process-local: a display created
		// by a helper process is invisible to the application under test.
		// Offscreen positioning is therefore the deliberate strategy here,
		// not a fallback. Re-evaluate if a future OS version lifts this.
		return &offscreenController{cfg: cfg, logger: logger, reason: "macOS virtual displays are process-local"}
	case "linux":
		return &linuxController{cfg: cfg, logger: logger}
	default:
		return &noopController{}
	}
}

func offscreenEnv(cfg *config.Config) map[string]string {
	return map[string]string{
		EnvOffscreen: "1",
		EnvWindowX:   strconv.Itoa(cfg.Display.OffscreenX),
		EnvWindowY:   strconv.Itoa(cfg.Display.OffscreenY),
	}
}
