package main

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"testreel/internal/config"
	"testreel/internal/logging"
)

// commandContext lazily loads configuration and builds the shared logger so
// commands that never touch config (config init, help) stay independent of
// its validity.
type commandContext struct {
	configFlag *string

	mu         sync.Mutex
	cfg        *config.Config
	configPath string
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cfg != nil {
		return c.cfg, nil
	}

	path := ""
	if c.configFlag != nil {
		path = *c.configFlag
	}
	cfg, resolvedPath, _, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	c.configPath = resolvedPath
	return cfg, nil
}

// ensureLogger builds a logger writing to stderr and a timestamped file in
// the configured log directory. File setup problems degrade to stderr-only.
func (c *commandContext) ensureLogger(component string) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.logger != nil {
		return c.logger, nil
	}

	outputs := []string{"stderr"}
	if cfg.Paths.LogDir != "" {
		stamp := time.Now().UTC().Format("20060102T150405")
		outputs = append(outputs, filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("testreel-%s-%s.log", component, stamp)))
	}

	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: outputs,
	})
	if err != nil {
		// Fall back rather than refusing to run because of a log path.
		logger, err = logging.New(logging.Options{Level: cfg.Logging.Level})
		if err != nil {
			return nil, err
		}
	}
	c.logger = logger
	return logger, nil
}
