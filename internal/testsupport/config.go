package testsupport

import (
	"path/filepath"
	"testing"

	"testreel/internal/config"
)

// ConfigOption customizes the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.RawArtifactsRoot = filepath.Join(base, "raw")
	cfg.Paths.RunsRoot = filepath.Join(base, "runs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Ledger.Path = filepath.Join(base, "runs.db")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithDisplayMode sets the display strategy on the test config.
func WithDisplayMode(mode string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Display.Mode = mode
	}
}
