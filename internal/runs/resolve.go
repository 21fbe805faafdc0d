package runs

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"testreel/internal/logging"
)

// ErrNoRuns reports that no run could be located by any resolution tier.
var ErrNoRuns = errors.New("no collected runs found")

// Selection names the run directory and manifest a compile operates on.
type Selection struct {
	RunDirectoryPath string
	ManifestPath     string
	Manifest         *Manifest
}

// Resolve locates the run to compile. Tiers, most specific first: explicit
// manifest path, explicit run directory, the latest-run pointer, newest
// run-* directory under root by modification time. An explicitly requested
// manifest that cannot be read is fatal; pointer problems just fall through
// to the next tier.
func Resolve(root, runDirFlag, manifestFlag string, logger *slog.Logger) (Selection, error) {
	if path := strings.TrimSpace(manifestFlag); path != "" {
		manifest, err := ReadManifest(path)
		if err != nil {
			return Selection{}, err
		}
		runDir := strings.TrimSpace(runDirFlag)
		if runDir == "" {
			runDir = filepath.Dir(path)
		}
		return Selection{RunDirectoryPath: runDir, ManifestPath: path, Manifest: manifest}, nil
	}

	if dir := strings.TrimSpace(runDirFlag); dir != "" {
		path := filepath.Join(dir, ManifestFileName)
		manifest, err := ReadManifest(path)
		if err != nil {
			return Selection{}, err
		}
		return Selection{RunDirectoryPath: dir, ManifestPath: path, Manifest: manifest}, nil
	}

	if pointer, err := ReadPointer(root); err == nil {
		manifest, readErr := ReadManifest(pointer.ManifestPath)
		if readErr == nil {
			return Selection{
				RunDirectoryPath: pointer.RunDirectoryPath,
				ManifestPath:     pointer.ManifestPath,
				Manifest:         manifest,
			}, nil
		}
		if logger != nil {
			logger.Warn("latest-run pointer is stale, scanning for newest run",
				logging.String("pointer_manifest", pointer.ManifestPath),
				logging.Error(readErr),
			)
		}
	} else if logger != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("unable to read latest-run pointer", logging.Error(err))
	}

	dir, err := newestRunDirectory(root)
	if err != nil {
		return Selection{}, err
	}
	path := filepath.Join(dir, ManifestFileName)
	manifest, err := ReadManifest(path)
	if err != nil {
		return Selection{}, err
	}
	return Selection{RunDirectoryPath: dir, ManifestPath: path, Manifest: manifest}, nil
}

func newestRunDirectory(root string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoRuns
		}
		return "", fmt.Errorf("scan runs root %q: %w", root, err)
	}

	var newest string
	var newestMod int64
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), RunDirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if mod := info.ModTime().UnixNano(); newest == "" || mod > newestMod {
			newest = filepath.Join(root, entry.Name())
			newestMod = mod
		}
	}
	if newest == "" {
		return "", ErrNoRuns
	}
	return newest, nil
}
