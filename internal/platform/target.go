package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Target identifies a (operating system, architecture) pair. It is the key
// used to pick a display controller variant and to decide whether a staged
// binary can be validated on the current machine.
type Target struct {
	OS   string
	Arch string
}

// Host returns the target describing the current machine.
func Host() Target {
	return Target{OS: runtime.GOOS, Arch: runtime.GOARCH}
}

// Parse decodes a "os/arch" pair such as "linux/amd64".
func Parse(value string) (Target, error) {
	trimmed := strings.TrimSpace(value)
	parts := strings.Split(trimmed, "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return Target{}, fmt.Errorf("invalid target %q: want os/arch", value)
	}
	return Target{
		OS:   strings.ToLower(strings.TrimSpace(parts[0])),
		Arch: strings.ToLower(strings.TrimSpace(parts[1])),
	}, nil
}

// String renders the target as "os/arch".
func (t Target) String() string {
	return t.OS + "/" + t.Arch
}

// IsHost reports whether the target matches the current machine, meaning a
// staged binary for it can be executed here for validation.
func (t Target) IsHost() bool {
	return t == Host()
}
