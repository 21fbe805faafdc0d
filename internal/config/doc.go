// Package config loads and validates testreel configuration.
//
// Configuration is TOML, discovered from an explicit --config path, a
// project-local testreel.toml, or ~/.config/testreel/config.toml, in that
// order. Load applies defaults, expands ~ in path fields, and validates the
// result, so the rest of the system never re-checks configuration values.
package config
