package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, path, exists, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("exists = true for a missing file")
	}
	if path == "" {
		t.Fatal("resolved path is empty")
	}
	if cfg.Runner.Command != defaultRunnerCommand {
		t.Errorf("runner.command = %q, want %q", cfg.Runner.Command, defaultRunnerCommand)
	}
	if cfg.Video.Width != defaultFrameWidth || cfg.Video.Height != defaultFrameHeight {
		t.Errorf("frame = %dx%d, want defaults", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Display.Mode != "auto" {
		t.Errorf("display.mode = %q, want auto", cfg.Display.Mode)
	}
	if !cfg.Ledger.Enabled {
		t.Error("ledger should default to enabled")
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := writeConfig(t, `
[runner]
command = "pnpm"
args = ["exec", "playwright", "test"]
timeout_minutes = 15

[display]
mode = "offscreen"

[video]
width = 1920
height = 1080
intro_seconds = 1.5
`)

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("exists = false for a real file")
	}
	if resolved != path {
		t.Errorf("resolved = %q, want %q", resolved, path)
	}
	if cfg.Runner.Command != "pnpm" {
		t.Errorf("runner.command = %q", cfg.Runner.Command)
	}
	if len(cfg.Runner.Args) != 3 || cfg.Runner.Args[0] != "exec" {
		t.Errorf("runner.args = %v", cfg.Runner.Args)
	}
	if cfg.Runner.TimeoutMinutes != 15 {
		t.Errorf("timeout = %d", cfg.Runner.TimeoutMinutes)
	}
	if cfg.Display.Mode != "offscreen" {
		t.Errorf("display.mode = %q", cfg.Display.Mode)
	}
	if cfg.Video.Width != 1920 || cfg.Video.Height != 1080 {
		t.Errorf("frame = %dx%d", cfg.Video.Width, cfg.Video.Height)
	}
	if cfg.Video.IntroSeconds != 1.5 {
		t.Errorf("intro_seconds = %v", cfg.Video.IntroSeconds)
	}
	// Unset sections keep their defaults.
	if cfg.Video.FPS != defaultFrameRate {
		t.Errorf("fps = %d, want default", cfg.Video.FPS)
	}
}

func TestLoadNormalizesNonPositiveDurations(t *testing.T) {
	path := writeConfig(t, `
[video]
intro_seconds = -2.0
failed_seconds = 0.0
fps = -1
`)

	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Video.IntroSeconds != defaultIntroSeconds {
		t.Errorf("intro_seconds = %v, want default", cfg.Video.IntroSeconds)
	}
	if cfg.Video.FailedSeconds != defaultFailedSeconds {
		t.Errorf("failed_seconds = %v, want default", cfg.Video.FailedSeconds)
	}
	if cfg.Video.FPS != defaultFrameRate {
		t.Errorf("fps = %d, want default", cfg.Video.FPS)
	}
}

func TestLoadRejectsBadDisplayMode(t *testing.T) {
	path := writeConfig(t, `
[display]
mode = "headless"
`)
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "display.mode") {
		t.Fatalf("err = %v, want display.mode validation failure", err)
	}
}

func TestLoadRejectsOddFrameSize(t *testing.T) {
	path := writeConfig(t, `
[video]
width = 1281
height = 720
`)
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "even dimensions") {
		t.Fatalf("err = %v, want frame size validation failure", err)
	}
}

func TestLoadRejectsBadLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "xml"
`)
	_, _, _, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("err = %v, want logging.format validation failure", err)
	}
}

func TestLoadNormalizesCase(t *testing.T) {
	path := writeConfig(t, `
[display]
mode = "  OffScreen "

[logging]
format = "JSON"
level = "DEBUG"
`)
	cfg, _, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Display.Mode != "offscreen" {
		t.Errorf("display.mode = %q", cfg.Display.Mode)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Errorf("logging = %q/%q", cfg.Logging.Format, cfg.Logging.Level)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	got, err := expandPath("~/x/y")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	want := filepath.Join(home, "x", "y")
	if got != want {
		t.Errorf("expandPath = %q, want %q", got, want)
	}

	got, err = expandPath("~")
	if err != nil {
		t.Fatalf("expandPath: %v", err)
	}
	if got != home {
		t.Errorf("expandPath(~) = %q, want %q", got, home)
	}
}

func TestExpandPathRelative(t *testing.T) {
	got, err := ExpandPath("relative/runs")
	if err != nil {
		t.Fatalf("ExpandPath: %v", err)
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ExpandPath(%q) = %q, want absolute", "relative/runs", got)
	}
}

func TestEnsureDirectoriesSkipsRawRoot(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Paths.RawArtifactsRoot = filepath.Join(base, "raw")
	cfg.Paths.RunsRoot = filepath.Join(base, "runs")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.RunsRoot, cfg.Paths.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}
	if _, err := os.Stat(cfg.Paths.RawArtifactsRoot); !os.IsNotExist(err) {
		t.Error("raw artifacts root should not be created")
	}
}

func TestLedgerPathDefault(t *testing.T) {
	cfg := Default()
	cfg.Paths.LogDir = "/var/log/testreel"
	cfg.Ledger.Path = ""
	if got := cfg.LedgerPath(); got != filepath.Join("/var/log/testreel", "runs.db") {
		t.Errorf("LedgerPath = %q", got)
	}

	cfg.Ledger.Path = "/data/ledger.db"
	if got := cfg.LedgerPath(); got != "/data/ledger.db" {
		t.Errorf("LedgerPath = %q", got)
	}
}

func TestSampleConfigParses(t *testing.T) {
	path := writeConfig(t, Sample())
	if _, _, _, err := Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
