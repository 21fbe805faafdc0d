package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path (and its parents) with the given contents.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteVideo drops a placeholder recording at path. The contents only need
// to survive a verified copy, not decode as real video.
func WriteVideo(t testing.TB, path string) {
	t.Helper()
	WriteFile(t, path, []byte("not-really-a-video"))
}

// WriteFailureMarker drops a test-failed marker next to a recording.
func WriteFailureMarker(t testing.TB, dir string) {
	t.Helper()
	WriteFile(t, filepath.Join(dir, "test-failed-1.png"), []byte{0x89, 'P', 'N', 'G'})
}
