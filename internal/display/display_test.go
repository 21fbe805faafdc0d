package display

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"testreel/internal/config"
	"testreel/internal/platform"
	"testreel/internal/testsupport"
)

func TestForTargetSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	tests := []struct {
		name   string
		target platform.Target
		cfg    *config.Config
		want   string
	}{
		{"nil config", platform.Target{OS: "linux"}, nil, "*display.noopController"},
		{"mode none", platform.Target{OS: "linux"}, testsupport.NewConfig(t, testsupport.WithDisplayMode("none")), "*display.noopController"},
		{"mode offscreen", platform.Target{OS: "linux"}, testsupport.NewConfig(t, testsupport.WithDisplayMode("offscreen")), "*display.offscreenController"},
		{"windows", platform.Target{OS: "windows"}, cfg, "*display.windowsController"},
		{"darwin", platform.Target{OS: "darwin"}, cfg, "*display.offscreenController"},
		{"linux", platform.Target{OS: "linux"}, cfg, "*display.linuxController"},
		{"unknown os", platform.Target{OS: "plan9"}, cfg, "*display.noopController"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := fmt.Sprintf("%T", ForTarget(tt.target, tt.cfg, nil))
			if got != tt.want {
				t.Errorf("ForTarget = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestOffscreenSessionEnv(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithDisplayMode("offscreen"))
	cfg.Display.OffscreenX = -5000
	cfg.Display.OffscreenY = -6000

	controller := ForTarget(platform.Target{OS: "darwin"}, cfg, nil)
	session := controller.Setup(context.Background())

	if session.Env[EnvOffscreen] != "1" {
		t.Errorf("%s = %q, want 1", EnvOffscreen, session.Env[EnvOffscreen])
	}
	if session.Env[EnvWindowX] != strconv.Itoa(-5000) {
		t.Errorf("%s = %q", EnvWindowX, session.Env[EnvWindowX])
	}
	if session.Env[EnvWindowY] != strconv.Itoa(-6000) {
		t.Errorf("%s = %q", EnvWindowY, session.Env[EnvWindowY])
	}
	if len(session.Wrapper) != 0 {
		t.Errorf("offscreen session has a wrapper: %v", session.Wrapper)
	}
	controller.Teardown()
	controller.Teardown() // idempotent
}

func TestNoopSessionIsEmpty(t *testing.T) {
	controller := ForTarget(platform.Target{OS: "linux"}, testsupport.NewConfig(t, testsupport.WithDisplayMode("none")), nil)
	session := controller.Setup(context.Background())
	if len(session.Env) != 0 || len(session.Wrapper) != 0 {
		t.Errorf("noop session = %+v", session)
	}
	controller.Teardown()
}

func TestLinuxPrefersXvfbWrapper(t *testing.T) {
	binDir := t.TempDir()
	script := filepath.Join(binDir, "xvfb-run")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", binDir)

	cfg := testsupport.NewConfig(t)
	cfg.Video.Width = 1920
	cfg.Video.Height = 1080

	controller := ForTarget(platform.Target{OS: "linux"}, cfg, nil)
	session := controller.Setup(context.Background())

	if len(session.Wrapper) != 3 {
		t.Fatalf("wrapper = %v", session.Wrapper)
	}
	if session.Wrapper[0] != script {
		t.Errorf("wrapper binary = %q, want %q", session.Wrapper[0], script)
	}
	if session.Wrapper[1] != "--auto-servernum" {
		t.Errorf("wrapper[1] = %q", session.Wrapper[1])
	}
	if session.Wrapper[2] != "--server-args=-screen 0 1920x1080x24" {
		t.Errorf("wrapper[2] = %q", session.Wrapper[2])
	}
	controller.Teardown()
}

func TestLinuxFallsBackToExistingDisplay(t *testing.T) {
	// Empty PATH: no xvfb-run and no xdpyinfo, so the configured DISPLAY is
	// trusted without a probe.
	t.Setenv("PATH", t.TempDir())
	t.Setenv("DISPLAY", ":42")

	controller := ForTarget(platform.Target{OS: "linux"}, testsupport.NewConfig(t), nil)
	session := controller.Setup(context.Background())

	if len(session.Wrapper) != 0 {
		t.Errorf("unexpected wrapper: %v", session.Wrapper)
	}
	if session.Env["DISPLAY"] != ":42" {
		t.Errorf("DISPLAY = %q", session.Env["DISPLAY"])
	}
}

func TestLinuxBareFallback(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	t.Setenv("DISPLAY", "")

	controller := ForTarget(platform.Target{OS: "linux"}, testsupport.NewConfig(t), nil)
	session := controller.Setup(context.Background())

	if len(session.Env) != 0 || len(session.Wrapper) != 0 {
		t.Errorf("bare fallback session = %+v", session)
	}
}

func TestWindowsFallsBackToOffscreen(t *testing.T) {
	// powershell.exe is absent from an empty PATH, which is exactly the
	// degraded tier: desktop creation fails, offscreen env comes back.
	t.Setenv("PATH", t.TempDir())

	cfg := testsupport.NewConfig(t)
	controller := ForTarget(platform.Target{OS: "windows"}, cfg, nil)
	session := controller.Setup(context.Background())

	if session.Env[EnvOffscreen] != "1" {
		t.Errorf("fallback env = %+v", session.Env)
	}
	if _, ok := session.Env[EnvVirtualDesktop]; ok {
		t.Error("virtual desktop id set despite failed creation")
	}
	controller.Teardown()
	controller.Teardown()
}
