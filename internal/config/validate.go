package config

import (
	"fmt"
)

var validDisplayModes = map[string]struct{}{
	"auto":      {},
	"offscreen": {},
	"none":      {},
}

var validLogFormats = map[string]struct{}{
	"":        {},
	"console": {},
	"json":    {},
}

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateVideo(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDisplay() error {
	if _, ok := validDisplayModes[c.Display.Mode]; !ok {
		return fmt.Errorf("display.mode: unsupported value %q (want auto, offscreen, or none)", c.Display.Mode)
	}
	return nil
}

func (c *Config) validateVideo() error {
	if c.Video.Width%2 != 0 || c.Video.Height%2 != 0 {
		return fmt.Errorf("video: frame size %dx%d must have even dimensions", c.Video.Width, c.Video.Height)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	return nil
}
