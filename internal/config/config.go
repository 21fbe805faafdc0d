package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	RawArtifactsRoot string `toml:"raw_artifacts_root"`
	RunsRoot         string `toml:"runs_root"`
	LogDir           string `toml:"log_dir"`
}

// Runner contains configuration for the UI test runner child process.
type Runner struct {
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	TimeoutMinutes int      `toml:"timeout_minutes"`
}

// Display contains configuration for the virtual display strategy.
type Display struct {
	// Mode selects the strategy: "auto" picks per-OS behaviour, "offscreen"
	// forces offscreen window positioning, "none" disables isolation.
	Mode       string `toml:"mode"`
	OffscreenX int    `toml:"offscreen_x"`
	OffscreenY int    `toml:"offscreen_y"`
}

// Video contains configuration for segment synthesis and concatenation.
type Video struct {
	FFmpeg        string   `toml:"ffmpeg"`
	FFprobe       string   `toml:"ffprobe"`
	Width         int      `toml:"width"`
	Height        int      `toml:"height"`
	FPS           int      `toml:"fps"`
	IntroSeconds  float64  `toml:"intro_seconds"`
	FailedSeconds float64  `toml:"failed_seconds"`
	Background    string   `toml:"background"`
	OutputName    string   `toml:"output_name"`
	FontPaths     []string `toml:"font_paths"`
}

// Ledger contains configuration for the run-history database.
type Ledger struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for testreel.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Runner  Runner  `toml:"runner"`
	Display Display `toml:"display"`
	Video   Video   `toml:"video"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
}

// Sample returns the embedded sample configuration file contents.
func Sample() string {
	return sampleConfig
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/testreel/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file actually existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("testreel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes into. The
// raw artifacts root is deliberately not created: its absence is a valid
// "nothing collected yet" state owned by the test runner.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.RunsRoot, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LedgerPath returns the run-history database location, defaulting to a
// file inside the log directory.
func (c *Config) LedgerPath() string {
	if strings.TrimSpace(c.Ledger.Path) != "" {
		return c.Ledger.Path
	}
	return filepath.Join(c.Paths.LogDir, "runs.db")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves a leading ~ and returns the cleaned absolute path.
// Command-line path overrides go through the same expansion as file values.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}
