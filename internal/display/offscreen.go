package display

import (
	"context"
	"log/slog"

	"testreel/internal/config"
	"testreel/internal/logging"
)

// offscreenController positions application windows outside any physical
// display's bounds. It is the terminal fallback tier on Windows and the
// primary strategy on macOS.
type offscreenController struct {
	cfg    *config.Config
	logger *slog.Logger
	reason string
}

func (c *offscreenController) Setup(ctx context.Context) Session {
	c.logger.Info("using offscreen window positioning",
		logging.String("reason", c.reason),
		logging.Int("x", c.cfg.Display.OffscreenX),
		logging.Int("y", c.cfg.Display.OffscreenY),
	)
	return Session{Env: offscreenEnv(c.cfg)}
}

func (c *offscreenController) Teardown() {}

// noopController passes the environment through untouched. Selected for
// unknown platforms and display.mode=none.
type noopController struct{}

func (c *noopController) Setup(ctx context.Context) Session { return Session{} }

func (c *noopController) Teardown() {}
