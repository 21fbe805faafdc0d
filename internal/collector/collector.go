package collector

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"testreel/internal/config"
	"testreel/internal/fileutil"
	"testreel/internal/logging"
	"testreel/internal/runs"
)

// videoExtensions are the recording formats the test runner is known to
// produce.
var videoExtensions = map[string]struct{}{
	".webm": {},
	".mp4":  {},
	".mov":  {},
	".mkv":  {},
}

var failureMarkerPattern = regexp.MustCompile(`^test-failed-\d+\.`)

const (
	copyWorkers  = 4
	lockFileName = ".collect.lock"
	lockTimeout  = 30 * time.Second
)

// Result reports the outcome of a collection. A nil Manifest means the raw
// artifacts root held no recognized videos and nothing was written.
type Result struct {
	Manifest     *runs.Manifest
	ManifestPath string
	Skipped      int
}

type candidate struct {
	relPath string
	absPath string
	topDir  string
	status  runs.Status
	label   string
}

// Collect walks the raw artifacts tree, copies every recognized video into a
// fresh flat run directory, and writes the manifest plus the latest-run
// pointer. A missing raw root is an empty result, not an error; a source
// file vanishing between discovery and copy is skipped silently.
func Collect(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Result, error) {
	if cfg == nil {
		return Result{}, errors.New("config is required")
	}
	if logger == nil {
		logger = logging.Discard()
	}
	sessionID := uuid.NewString()
	logger = logger.With(logging.String("collect_session", sessionID))

	candidates, err := discover(cfg.Paths.RawArtifactsRoot)
	if err != nil {
		return Result{}, err
	}
	if len(candidates) == 0 {
		logger.Info("no video artifacts found",
			logging.String("raw_root", cfg.Paths.RawArtifactsRoot),
		)
		return Result{}, nil
	}

	if err := os.MkdirAll(cfg.Paths.RunsRoot, 0o755); err != nil {
		return Result{}, fmt.Errorf("create runs root: %w", err)
	}

	// Two collectors racing on one runs root would fight over the pointer
	// file; serialize the whole publish step.
	lock := flock.New(filepath.Join(cfg.Paths.RunsRoot, lockFileName))
	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	locked, err := lock.TryLockContext(lockCtx, 250*time.Millisecond)
	if err != nil || !locked {
		if err == nil {
			err = errors.New("timed out")
		}
		return Result{}, fmt.Errorf("acquire collect lock: %w", err)
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			logger.Warn("release collect lock", logging.Error(unlockErr))
		}
	}()

	createdAt := time.Now().UTC()
	runName, runPath, err := runs.CreateDirectory(cfg.Paths.RunsRoot, createdAt)
	if err != nil {
		return Result{}, err
	}
	logger.Info("collecting artifacts",
		logging.String("raw_root", cfg.Paths.RawArtifactsRoot),
		logging.String("run_dir", runPath),
		logging.Int("candidates", len(candidates)),
	)

	copied := copyAll(ctx, candidates, runPath, logger)

	manifest := &runs.Manifest{
		CreatedAt:        createdAt,
		RawArtifactsRoot: cfg.Paths.RawArtifactsRoot,
		RunDirectoryName: runName,
		RunDirectoryPath: runPath,
	}
	skipped := 0
	for i, cand := range candidates {
		if !copied[i] {
			skipped++
			continue
		}
		name := flattenName(cand.relPath)
		manifest.Entries = append(manifest.Entries, runs.ManifestEntry{
			SourceRelativePath:        cand.relPath,
			CopiedFileName:            name,
			CopiedFilePath:            filepath.Join(runPath, name),
			TestArtifactDirectoryName: cand.topDir,
			TestLabel:                 cand.label,
			Status:                    cand.status,
		})
	}

	manifestPath, err := runs.WriteManifest(manifest)
	if err != nil {
		return Result{}, err
	}

	pointer := runs.LatestPointer{
		RunDirectoryName:  runName,
		RunDirectoryPath:  runPath,
		ManifestPath:      manifestPath,
		CombinedVideoPath: filepath.Join(runPath, cfg.Video.OutputName),
		CreatedAt:         createdAt,
	}
	if err := runs.WritePointer(cfg.Paths.RunsRoot, pointer); err != nil {
		// The run itself is intact; a stale pointer only degrades the
		// compiler's fallback resolution.
		logger.Warn("refresh latest-run pointer", logging.Error(err))
	}

	logger.Info("collection complete",
		logging.Int("videos", len(manifest.Entries)),
		logging.Int("skipped", skipped),
		logging.String("manifest", manifestPath),
	)
	return Result{Manifest: manifest, ManifestPath: manifestPath, Skipped: skipped}, nil
}

func discover(root string) ([]candidate, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat raw artifacts root %q: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("raw artifacts root %q is not a directory", root)
	}

	var found []candidate
	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// A subtree going away mid-walk is the runner cleaning up after
			// itself; collect what remains.
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := videoExtensions[ext]; !ok {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)
		cand := candidate{
			relPath: rel,
			absPath: path,
			topDir:  topSegment(rel),
			status:  runs.StatusPassed,
		}
		if hasFailureMarker(filepath.Dir(path)) {
			cand.status = runs.StatusFailed
		}
		if cand.topDir != "" {
			cand.label = DecodeLabel(cand.topDir)
		} else {
			cand.label = strings.TrimSuffix(entry.Name(), ext)
		}
		found = append(found, cand)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk raw artifacts root: %w", walkErr)
	}
	return found, nil
}

// copyAll copies candidates into destDir with a bounded worker pool. The
// returned slice marks, per candidate index, whether the copy landed;
// manifest order stays discovery order regardless of completion order.
func copyAll(ctx context.Context, candidates []candidate, destDir string, logger *slog.Logger) []bool {
	copied := make([]bool, len(candidates))
	indexes := make(chan int)
	var wg sync.WaitGroup

	workers := copyWorkers
	if len(candidates) < workers {
		workers = len(candidates)
	}
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				cand := candidates[i]
				dst := filepath.Join(destDir, flattenName(cand.relPath))
				if err := fileutil.CopyFileVerified(cand.absPath, dst); err != nil {
					if errors.Is(err, os.ErrNotExist) {
						logger.Debug("source vanished before copy",
							logging.String("source", cand.relPath),
						)
						continue
					}
					logger.Warn("copy artifact failed, skipping",
						logging.String("source", cand.relPath),
						logging.Error(err),
					)
					continue
				}
				copied[i] = true
			}
		}()
	}

	for i := range candidates {
		select {
		case <-ctx.Done():
			// Drain stops; whatever already copied still makes the manifest.
			close(indexes)
			wg.Wait()
			return copied
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()
	return copied
}

// flattenName collapses a relative path into a single collision-free file
// name by joining every segment with a fixed separator token.
func flattenName(relPath string) string {
	return strings.Join(strings.Split(relPath, "/"), "__")
}

func topSegment(relPath string) string {
	if idx := strings.Index(relPath, "/"); idx >= 0 {
		return relPath[:idx]
	}
	return ""
}

func hasFailureMarker(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if failureMarkerPattern.MatchString(entry.Name()) {
			return true
		}
	}
	return false
}
