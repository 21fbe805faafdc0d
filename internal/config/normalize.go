package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRunner()
	c.normalizeDisplay()
	c.normalizeVideo()
	if err := c.normalizeLedger(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.RawArtifactsRoot) == "" {
		c.Paths.RawArtifactsRoot = defaultRawArtifactsRoot
	}
	if c.Paths.RawArtifactsRoot, err = expandPath(c.Paths.RawArtifactsRoot); err != nil {
		return fmt.Errorf("paths.raw_artifacts_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.RunsRoot) == "" {
		c.Paths.RunsRoot = defaultRunsRoot
	}
	if c.Paths.RunsRoot, err = expandPath(c.Paths.RunsRoot); err != nil {
		return fmt.Errorf("paths.runs_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeRunner() {
	c.Runner.Command = strings.TrimSpace(c.Runner.Command)
	if c.Runner.Command == "" {
		c.Runner.Command = defaultRunnerCommand
	}
	if c.Runner.TimeoutMinutes < 0 {
		c.Runner.TimeoutMinutes = 0
	}
}

func (c *Config) normalizeDisplay() {
	c.Display.Mode = strings.ToLower(strings.TrimSpace(c.Display.Mode))
	if c.Display.Mode == "" {
		c.Display.Mode = defaultDisplayMode
	}
	if c.Display.OffscreenX == 0 && c.Display.OffscreenY == 0 {
		c.Display.OffscreenX = defaultOffscreenX
		c.Display.OffscreenY = defaultOffscreenY
	}
}

func (c *Config) normalizeVideo() {
	if strings.TrimSpace(c.Video.FFmpeg) == "" {
		c.Video.FFmpeg = defaultFFmpeg
	}
	if strings.TrimSpace(c.Video.FFprobe) == "" {
		c.Video.FFprobe = defaultFFprobe
	}
	if c.Video.Width <= 0 {
		c.Video.Width = defaultFrameWidth
	}
	if c.Video.Height <= 0 {
		c.Video.Height = defaultFrameHeight
	}
	if c.Video.FPS <= 0 {
		c.Video.FPS = defaultFrameRate
	}
	if c.Video.IntroSeconds <= 0 {
		c.Video.IntroSeconds = defaultIntroSeconds
	}
	if c.Video.FailedSeconds <= 0 {
		c.Video.FailedSeconds = defaultFailedSeconds
	}
	if strings.TrimSpace(c.Video.Background) == "" {
		c.Video.Background = defaultBackground
	}
	if strings.TrimSpace(c.Video.OutputName) == "" {
		c.Video.OutputName = defaultOutputName
	}
}

func (c *Config) normalizeLedger() error {
	if strings.TrimSpace(c.Ledger.Path) == "" {
		return nil
	}
	expanded, err := expandPath(c.Ledger.Path)
	if err != nil {
		return fmt.Errorf("ledger.path: %w", err)
	}
	c.Ledger.Path = expanded
	return nil
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
