package compiler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"testreel/internal/config"
	"testreel/internal/fileutil"
	"testreel/internal/logging"
	"testreel/internal/media/ffprobe"
	"testreel/internal/runs"
)

// ErrEmptyManifest reports a manifest with zero entries. Callers treat it as
// "nothing to do" and exit cleanly.
var ErrEmptyManifest = errors.New("manifest has no entries")

// Options overrides compile behaviour. Non-positive durations silently fall
// back to the configured defaults.
type Options struct {
	IntroSeconds  float64
	FailedSeconds float64
	OutputPath    string
}

// Compiler synthesizes one segment per manifest entry and concatenates them
// into the combined run video.
type Compiler struct {
	cfg    *config.Config
	logger *slog.Logger

	// runFFmpeg is swapped in tests to capture invocations.
	runFFmpeg func(ctx context.Context, binary string, args []string) error
}

// New constructs a Compiler.
func New(cfg *config.Config, logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Compiler{cfg: cfg, logger: logger, runFFmpeg: execFFmpeg}
}

// Compile renders every manifest entry, strictly in manifest order, then
// concatenates the segments into one video inside the run directory. The
// scratch directory holding segments and the concat list is removed on every
// exit path.
func (c *Compiler) Compile(ctx context.Context, sel runs.Selection, opts Options) (string, error) {
	if sel.Manifest == nil {
		return "", errors.New("run selection has no manifest")
	}
	entries := sel.Manifest.Entries
	if len(entries) == 0 {
		return "", ErrEmptyManifest
	}

	introSeconds := opts.IntroSeconds
	if introSeconds <= 0 {
		introSeconds = c.cfg.Video.IntroSeconds
	}
	failedSeconds := opts.FailedSeconds
	if failedSeconds <= 0 {
		failedSeconds = c.cfg.Video.FailedSeconds
	}
	outputPath := strings.TrimSpace(opts.OutputPath)
	if outputPath == "" {
		outputPath = filepath.Join(sel.RunDirectoryPath, c.cfg.Video.OutputName)
	}

	scratch, err := os.MkdirTemp(sel.RunDirectoryPath, "segments-")
	if err != nil {
		return "", fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if removeErr := os.RemoveAll(scratch); removeErr != nil {
			c.logger.Warn("remove scratch directory", logging.Error(removeErr))
		}
	}()

	fontFile := resolveFont(c.cfg.Video.FontPaths)
	if fontFile == "" {
		c.logger.Debug("no overlay font found, using drawtext default")
	}

	c.logger.Info("compiling run video",
		logging.String("run_dir", sel.RunDirectoryPath),
		logging.Int("segments", len(entries)),
		logging.String("output", outputPath),
	)

	// Sequential by policy: final order must match manifest order, and one
	// encoder process at a time bounds peak resource usage.
	segments := make([]string, 0, len(entries))
	for i, entry := range entries {
		segPath := filepath.Join(scratch, fmt.Sprintf("seg-%03d.mp4", i))
		if err := c.buildSegment(ctx, entry, i, len(entries), fontFile, introSeconds, failedSeconds, segPath); err != nil {
			return "", fmt.Errorf("build segment %d/%d (%s): %w", i+1, len(entries), entry.TestLabel, err)
		}
		segments = append(segments, segPath)
	}

	if err := c.concatenate(ctx, scratch, segments, outputPath); err != nil {
		return "", err
	}

	c.logCombinedDuration(ctx, outputPath)
	return outputPath, nil
}

// buildSegment renders one entry. A passed entry with a present recording
// becomes an intro card stitched to the rescaled clip; anything else becomes
// a standalone card, with artifact loss annotated separately from failure.
func (c *Compiler) buildSegment(ctx context.Context, entry runs.ManifestEntry, index, total int, fontFile string, introSeconds, failedSeconds float64, outPath string) error {
	artifactMissing := !fileutil.Exists(entry.CopiedFilePath)
	if entry.Status == runs.StatusFailed || artifactMissing {
		card := newCardText(entry, index, total, artifactMissing)
		if artifactMissing && entry.Status == runs.StatusPassed {
			c.logger.Warn("recorded file missing, rendering failed card",
				logging.String("file", entry.CopiedFilePath),
				logging.String("label", entry.TestLabel),
			)
		}
		return c.runFFmpeg(ctx, c.cfg.Video.FFmpeg, c.cardArgs(card, fontFile, failedSeconds, outPath))
	}

	card := newCardText(entry, index, total, false)
	c.logClipInfo(ctx, entry.CopiedFilePath)
	return c.runFFmpeg(ctx, c.cfg.Video.FFmpeg, c.stitchedArgs(card, fontFile, entry.CopiedFilePath, introSeconds, outPath))
}

// concatenate joins the segments with the concat demuxer and a uniform
// re-encode. Stream copy is deliberately avoided: intro and content halves
// may come from different encoders.
func (c *Compiler) concatenate(ctx context.Context, scratch string, segments []string, outputPath string) error {
	listPath := filepath.Join(scratch, "concat.txt")
	var list strings.Builder
	for _, segment := range segments {
		list.WriteString("file ")
		list.WriteString(escapeConcatPath(segment))
		list.WriteByte('\n')
	}
	if err := os.WriteFile(listPath, []byte(list.String()), 0o644); err != nil {
		return fmt.Errorf("write concat list: %w", err)
	}

	args := append([]string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "concat", "-safe", "0",
		"-i", listPath,
		"-r", fmt.Sprintf("%d", c.cfg.Video.FPS),
	}, c.encodeArgs(outputPath)...)
	if err := c.runFFmpeg(ctx, c.cfg.Video.FFmpeg, args); err != nil {
		return fmt.Errorf("concatenate segments: %w", err)
	}
	return nil
}

func (c *Compiler) logClipInfo(ctx context.Context, path string) {
	result, err := ffprobe.Inspect(ctx, c.cfg.Video.FFprobe, path)
	if err != nil {
		c.logger.Debug("ffprobe inspect failed", logging.String("clip", path), logging.Error(err))
		return
	}
	width, height := result.VideoGeometry()
	c.logger.Debug("source clip",
		logging.String("clip", path),
		logging.Float64("duration_seconds", result.DurationSeconds()),
		logging.Int("width", width),
		logging.Int("height", height),
	)
}

func (c *Compiler) logCombinedDuration(ctx context.Context, path string) {
	result, err := ffprobe.Inspect(ctx, c.cfg.Video.FFprobe, path)
	if err != nil {
		return
	}
	c.logger.Info("combined video written",
		logging.String("output", path),
		logging.Float64("duration_seconds", result.DurationSeconds()),
	)
}

func execFFmpeg(ctx context.Context, binary string, args []string) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", binary, err, detail)
		}
		return fmt.Errorf("%s: %w", binary, err)
	}
	return nil
}
