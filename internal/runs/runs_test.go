package runs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryName(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)
	got := DirectoryName(at)
	assert.Equal(t, "run-2026-03-14T09-26-53-589Z", got)
	assert.NotContains(t, got, ":")
	assert.NotContains(t, got, ".")
}

func TestDirectoryNameConvertsToUTC(t *testing.T) {
	loc := time.FixedZone("plus2", 2*60*60)
	at := time.Date(2026, 3, 14, 11, 0, 0, 0, loc)
	assert.Equal(t, "run-2026-03-14T09-00-00-000Z", DirectoryName(at))
}

func TestCreateDirectoryCollisionRetries(t *testing.T) {
	root := t.TempDir()
	at := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC)

	name1, path1, err := CreateDirectory(root, at)
	require.NoError(t, err)
	name2, path2, err := CreateDirectory(root, at)
	require.NoError(t, err)

	assert.Equal(t, "run-2026-03-14T09-26-53-589Z", name1)
	assert.Equal(t, "run-2026-03-14T09-26-53-589Z-1", name2)
	assert.NotEqual(t, path1, path2)
	for _, path := range []string{path1, path2} {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr)
		assert.True(t, info.IsDir())
	}
}

func TestCreateDirectoryMakesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "runs")
	_, path, err := CreateDirectory(root, time.Now())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), RunDirPrefix))
}

func TestWriteManifestFixesVideoCount(t *testing.T) {
	runDir := t.TempDir()
	manifest := &Manifest{
		CreatedAt:        time.Now().UTC(),
		RunDirectoryName: filepath.Base(runDir),
		RunDirectoryPath: runDir,
		VideoCount:       99,
		Entries: []ManifestEntry{
			{CopiedFileName: "a.webm", TestLabel: "a", Status: StatusPassed},
			{CopiedFileName: "b.webm", TestLabel: "b", Status: StatusFailed},
		},
	}

	path, err := WriteManifest(manifest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(runDir, ManifestFileName), path)
	assert.Equal(t, 2, manifest.VideoCount)

	loaded, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, 2, loaded.VideoCount)
	assert.Equal(t, manifest.Entries, loaded.Entries)
}

func TestWriteManifestNil(t *testing.T) {
	_, err := WriteManifest(nil)
	require.Error(t, err)
}

func TestManifestJSONFieldNames(t *testing.T) {
	runDir := t.TempDir()
	manifest := &Manifest{
		RunDirectoryPath: runDir,
		Entries: []ManifestEntry{{
			SourceRelativePath:        "suite/video.webm",
			CopiedFileName:            "suite__video.webm",
			TestArtifactDirectoryName: "suite",
			TestLabel:                 "suite",
			Status:                    StatusPassed,
		}},
	}
	path, err := WriteManifest(manifest)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	for _, field := range []string{
		"createdAt", "runDirectoryName", "videoCount", "entries",
		"sourceRelativePath", "copiedFileName", "testArtifactDirectoryName", "testLabel",
	} {
		assert.Contains(t, string(raw), `"`+field+`"`)
	}
}

func TestPointerRoundTripAndOverwrite(t *testing.T) {
	root := t.TempDir()

	first := LatestPointer{
		RunDirectoryName: "run-a",
		RunDirectoryPath: filepath.Join(root, "run-a"),
		ManifestPath:     filepath.Join(root, "run-a", ManifestFileName),
		CreatedAt:        time.Now().UTC(),
	}
	require.NoError(t, WritePointer(root, first))

	second := first
	second.RunDirectoryName = "run-b"
	second.RunDirectoryPath = filepath.Join(root, "run-b")
	require.NoError(t, WritePointer(root, second))

	loaded, err := ReadPointer(root)
	require.NoError(t, err)
	assert.Equal(t, "run-b", loaded.RunDirectoryName)

	// The temp file used for the atomic swap must not linger.
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"))
	}
}

func TestReadPointerMissing(t *testing.T) {
	_, err := ReadPointer(t.TempDir())
	require.ErrorIs(t, err, os.ErrNotExist)
}

func writeRun(t *testing.T, root, name string, mod time.Time) string {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.Mkdir(dir, 0o755))
	manifest := &Manifest{
		RunDirectoryName: name,
		RunDirectoryPath: dir,
		Entries:          []ManifestEntry{{CopiedFileName: name + ".webm", TestLabel: name, Status: StatusPassed}},
	}
	_, err := WriteManifest(manifest)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(dir, mod, mod))
	return dir
}

func TestResolveExplicitManifest(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "run-explicit", time.Now())

	sel, err := Resolve(root, "", filepath.Join(dir, ManifestFileName), nil)
	require.NoError(t, err)
	assert.Equal(t, dir, sel.RunDirectoryPath)
	assert.Equal(t, "run-explicit", sel.Manifest.RunDirectoryName)
}

func TestResolveExplicitRunDir(t *testing.T) {
	root := t.TempDir()
	dir := writeRun(t, root, "run-dir", time.Now())

	sel, err := Resolve(root, dir, "", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ManifestFileName), sel.ManifestPath)
}

func TestResolveExplicitManifestUnreadableIsFatal(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "run-live", time.Now())

	_, err := Resolve(root, "", filepath.Join(root, "nope.json"), nil)
	require.Error(t, err)
}

func TestResolveUsesPointer(t *testing.T) {
	root := t.TempDir()
	old := writeRun(t, root, "run-old", time.Now().Add(-time.Hour))
	writeRun(t, root, "run-new", time.Now())

	// Pointer deliberately names the older run; it wins over mtime.
	require.NoError(t, WritePointer(root, LatestPointer{
		RunDirectoryName: "run-old",
		RunDirectoryPath: old,
		ManifestPath:     filepath.Join(old, ManifestFileName),
	}))

	sel, err := Resolve(root, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, old, sel.RunDirectoryPath)
}

func TestResolveStalePointerFallsBack(t *testing.T) {
	root := t.TempDir()
	newest := writeRun(t, root, "run-kept", time.Now())

	require.NoError(t, WritePointer(root, LatestPointer{
		RunDirectoryName: "run-deleted",
		RunDirectoryPath: filepath.Join(root, "run-deleted"),
		ManifestPath:     filepath.Join(root, "run-deleted", ManifestFileName),
	}))

	sel, err := Resolve(root, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, newest, sel.RunDirectoryPath)
}

func TestResolveNewestByModTime(t *testing.T) {
	root := t.TempDir()
	writeRun(t, root, "run-older", time.Now().Add(-2*time.Hour))
	newest := writeRun(t, root, "run-newer", time.Now().Add(-time.Minute))

	// Non-run directories and files are ignored by the scan.
	require.NoError(t, os.Mkdir(filepath.Join(root, "scratch"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "run-notadir"), []byte("x"), 0o644))

	sel, err := Resolve(root, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, newest, sel.RunDirectoryPath)
}

func TestResolveNoRuns(t *testing.T) {
	_, err := Resolve(t.TempDir(), "", "", nil)
	require.ErrorIs(t, err, ErrNoRuns)

	_, err = Resolve(filepath.Join(t.TempDir(), "missing"), "", "", nil)
	require.ErrorIs(t, err, ErrNoRuns)
}
