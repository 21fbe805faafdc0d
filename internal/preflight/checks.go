package preflight

import (
	"fmt"
	"os"
	"path/filepath"
)

// CheckDirectoryAccess verifies the directory exists (creating it if needed)
// and is writable by dropping and removing a probe file.
func CheckDirectoryAccess(name, dir string) Result {
	if dir == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("cannot create: %v", err)}
	}

	probe := filepath.Join(dir, ".preflight-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("not writable: %v", err)}
	}
	_ = os.Remove(probe)
	return Result{Name: name, Passed: true, Detail: dir}
}
