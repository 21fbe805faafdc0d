package display

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"testreel/internal/config"
	"testreel/internal/logging"
)

const desktopProbeTimeout = 30 * time.Second

// createDesktopScript asks the VirtualDesktop PowerShell module for a fresh
// desktop and prints its identifier. Any failure surfaces as a non-zero
// exit or non-GUID output, both of which trigger the offscreen fallback.
const createDesktopScript = `
Import-Module VirtualDesktop -ErrorAction Stop
$desktop = New-Desktop
Get-DesktopId -Desktop $desktop
`

// windowsController creates an isolated virtual desktop through the
// PowerShell COM bridge. When the module is unavailable, blocked, or hands
// back no identifier, it degrades to offscreen positioning instead of
// aborting; the run proceeds either way.
type windowsController struct {
	cfg    *config.Config
	logger *slog.Logger

	mu        sync.Mutex
	desktopID string
}

func (c *windowsController) Setup(ctx context.Context) Session {
	id, err := c.createDesktop(ctx)
	if err != nil || id == "" {
		c.logger.Warn("virtual desktop unavailable, falling back to offscreen positioning",
			logging.Error(err),
		)
		return Session{Env: offscreenEnv(c.cfg)}
	}

	c.mu.Lock()
	c.desktopID = id
	c.mu.Unlock()

	c.logger.Info("created virtual desktop", logging.String("desktop_id", id))
	return Session{Env: map[string]string{EnvVirtualDesktop: id}}
}

func (c *windowsController) Teardown() {
	c.mu.Lock()
	id := c.desktopID
	c.desktopID = ""
	c.mu.Unlock()
	if id == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), desktopProbeTimeout)
	defer cancel()
	script := "Import-Module VirtualDesktop -ErrorAction Stop; Remove-Desktop -Id '" + id + "' -Confirm:$false"
	cmd := exec.CommandContext(ctx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", script)
	if output, err := cmd.CombinedOutput(); err != nil {
		c.logger.Warn("remove virtual desktop failed",
			logging.String("desktop_id", id),
			logging.String("output", strings.TrimSpace(string(output))),
			logging.Error(err),
		)
		return
	}
	c.logger.Info("removed virtual desktop", logging.String("desktop_id", id))
}

func (c *windowsController) createDesktop(ctx context.Context) (string, error) {
	probeCtx, cancel := context.WithTimeout(ctx, desktopProbeTimeout)
	defer cancel()

	cmd := exec.CommandContext(probeCtx, "powershell.exe", "-NoProfile", "-NonInteractive", "-Command", createDesktopScript)
	output, err := cmd.Output()
	if err != nil {
		return "", err
	}

	for _, line := range strings.Split(string(output), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if id, parseErr := uuid.Parse(trimmed); parseErr == nil {
			return id.String(), nil
		}
	}
	return "", nil
}
