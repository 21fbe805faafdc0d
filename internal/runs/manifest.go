package runs

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	// ManifestFileName is written inside every run directory.
	ManifestFileName = "manifest.json"
	// PointerFileName sits at the runs root and always names the latest run.
	PointerFileName = "latest-run.json"
	// RunDirPrefix is shared by every run directory name.
	RunDirPrefix = "run-"
)

// Status classifies a collected test recording.
type Status string

const (
	StatusPassed Status = "passed"
	StatusFailed Status = "failed"
)

// ManifestEntry records one collected video and where it came from.
type ManifestEntry struct {
	SourceRelativePath        string `json:"sourceRelativePath"`
	CopiedFileName            string `json:"copiedFileName"`
	CopiedFilePath            string `json:"copiedFilePath"`
	TestArtifactDirectoryName string `json:"testArtifactDirectoryName"`
	TestLabel                 string `json:"testLabel"`
	Status                    Status `json:"status"`
}

// Manifest describes one collector run. VideoCount always equals
// len(Entries); entries whose source vanished during copy are dropped before
// the manifest is written, never left dangling.
type Manifest struct {
	CreatedAt        time.Time       `json:"createdAt"`
	RawArtifactsRoot string          `json:"rawArtifactsRoot"`
	RunDirectoryName string          `json:"runDirectoryName"`
	RunDirectoryPath string          `json:"runDirectoryPath"`
	VideoCount       int             `json:"videoCount"`
	Entries          []ManifestEntry `json:"entries"`
}

// LatestPointer is the stable "most recent run" record at the runs root,
// fully overwritten by every collector run.
type LatestPointer struct {
	RunDirectoryName  string    `json:"runDirectoryName"`
	RunDirectoryPath  string    `json:"runDirectoryPath"`
	ManifestPath      string    `json:"manifestPath"`
	CombinedVideoPath string    `json:"combinedVideoPath"`
	CreatedAt         time.Time `json:"createdAt"`
}

// DirectoryName builds a filesystem-safe run directory name from a
// timestamp. Colons and dots in the ISO8601 form are replaced so the name is
// valid on every supported platform; millisecond granularity keeps
// back-to-back runs distinct.
func DirectoryName(at time.Time) string {
	stamp := at.UTC().Format("2006-01-02T15:04:05.000Z")
	stamp = strings.ReplaceAll(stamp, ":", "-")
	stamp = strings.ReplaceAll(stamp, ".", "-")
	return RunDirPrefix + stamp
}

// CreateDirectory makes a fresh run directory under root. A collision with
// an existing directory (two collectors inside one clock tick) retries with
// a numeric suffix instead of reusing the directory.
func CreateDirectory(root string, at time.Time) (string, string, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return "", "", fmt.Errorf("create runs root %q: %w", root, err)
	}
	base := DirectoryName(at)
	name := base
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			name = fmt.Sprintf("%s-%d", base, attempt)
		}
		path := filepath.Join(root, name)
		err := os.Mkdir(path, 0o755)
		if err == nil {
			return name, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", fmt.Errorf("create run directory %q: %w", path, err)
		}
		if attempt >= 100 {
			return "", "", fmt.Errorf("create run directory: %q keeps colliding", base)
		}
	}
}

// WriteManifest persists the manifest inside its run directory.
func WriteManifest(manifest *Manifest) (string, error) {
	if manifest == nil {
		return "", errors.New("manifest is required")
	}
	manifest.VideoCount = len(manifest.Entries)
	path := filepath.Join(manifest.RunDirectoryPath, ManifestFileName)
	if err := writeJSON(path, manifest); err != nil {
		return "", fmt.Errorf("write manifest: %w", err)
	}
	return path, nil
}

// ReadManifest loads and decodes a manifest file.
func ReadManifest(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	var manifest Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &manifest, nil
}

// WritePointer overwrites the latest-run pointer at the runs root. The file
// is replaced via rename so readers never observe a partial pointer.
func WritePointer(root string, pointer LatestPointer) error {
	path := filepath.Join(root, PointerFileName)
	if err := writeJSON(path, pointer); err != nil {
		return fmt.Errorf("write latest-run pointer: %w", err)
	}
	return nil
}

// ReadPointer loads the latest-run pointer. A missing file returns
// os.ErrNotExist wrapped, which callers treat as "fall back further".
func ReadPointer(root string) (LatestPointer, error) {
	path := filepath.Join(root, PointerFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return LatestPointer{}, fmt.Errorf("read latest-run pointer: %w", err)
	}
	var pointer LatestPointer
	if err := json.Unmarshal(raw, &pointer); err != nil {
		return LatestPointer{}, fmt.Errorf("parse latest-run pointer %s: %w", path, err)
	}
	return pointer, nil
}

func writeJSON(path string, value any) error {
	raw, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return err
	}
	raw = append(raw, '\n')
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
