package platform

import (
	"context"
	"runtime"
	"testing"
)

func TestHostMatchesRuntime(t *testing.T) {
	host := Host()
	if host.OS != runtime.GOOS || host.Arch != runtime.GOARCH {
		t.Errorf("Host() = %v", host)
	}
	if !host.IsHost() {
		t.Error("Host().IsHost() = false")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Target
		wantErr bool
	}{
		{in: "linux/amd64", want: Target{OS: "linux", Arch: "amd64"}},
		{in: "  Darwin/ARM64  ", want: Target{OS: "darwin", Arch: "arm64"}},
		{in: "windows/amd64", want: Target{OS: "windows", Arch: "amd64"}},
		{in: "linux", wantErr: true},
		{in: "linux/", wantErr: true},
		{in: "/amd64", wantErr: true},
		{in: "a/b/c", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q) succeeded with %v", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTargetString(t *testing.T) {
	target := Target{OS: "linux", Arch: "arm64"}
	if got := target.String(); got != "linux/arm64" {
		t.Errorf("String() = %q", got)
	}
}

func TestInCI(t *testing.T) {
	for _, name := range ciEnvVars {
		t.Setenv(name, "")
	}
	if InCI() {
		t.Error("InCI() = true with all signals cleared")
	}

	t.Setenv("BUILDKITE", "1")
	if !InCI() {
		t.Error("InCI() = false with BUILDKITE set")
	}
}

func TestValidateBinarySkipsForeignTarget(t *testing.T) {
	foreign := Target{OS: "plan9", Arch: "mips"}
	err := ValidateBinary(context.Background(), foreign, "/no/such/binary", nil)
	if err != nil {
		t.Errorf("foreign target validation should be skipped: %v", err)
	}
}

func TestValidateBinaryFailure(t *testing.T) {
	for _, name := range ciEnvVars {
		t.Setenv(name, "")
	}
	err := ValidateBinary(context.Background(), Host(), "/no/such/binary", nil)
	if err == nil {
		t.Error("missing binary passed its self-check")
	}
}

func TestValidateBinaryFailureDemotedUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	err := ValidateBinary(context.Background(), Host(), "/no/such/binary", nil)
	if err != nil {
		t.Errorf("CI should demote the failed self-check: %v", err)
	}
}
