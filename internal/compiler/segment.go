package compiler

import (
	"fmt"
	"strings"

	"testreel/internal/runs"
)

const maxLabelRunes = 60

// cardText is the overlay content for one synthesized title or failed card.
type cardText struct {
	Index   string // "3/10"
	Label   string
	Status  string
	Note    string // extra annotation line, empty for most cards
	IsError bool   // tints the status line red instead of green
}

func newCardText(entry runs.ManifestEntry, index, total int, artifactMissing bool) cardText {
	card := cardText{
		Index:   fmt.Sprintf("%d/%d", index+1, total),
		Label:   truncateLabel(entry.TestLabel, maxLabelRunes),
		Status:  strings.ToUpper(string(entry.Status)),
		IsError: entry.Status == runs.StatusFailed || artifactMissing,
	}
	if artifactMissing {
		// Artifact loss must be visually distinguishable from a genuine
		// test failure.
		card.Status = "FAILED"
		card.Note = "no video content for this failed test"
	}
	return card
}

// drawtextChain renders the card text as a chain of drawtext filters. The
// font file is optional; when empty the option is omitted entirely.
func (t cardText) drawtextChain(fontFile string, height int) string {
	fontOpt := ""
	if fontFile != "" {
		fontOpt = "fontfile='" + escapeOptionValue(fontFile) + "':"
	}

	statusColor := "0x7bd88f"
	if t.IsError {
		statusColor = "0xff6477"
	}

	lines := []string{
		drawtextFilter(fontOpt, t.Index, 48, "white", heightFraction(height, 0.24)),
		drawtextFilter(fontOpt, t.Label, 40, "white", heightFraction(height, 0.42)),
		drawtextFilter(fontOpt, t.Status, 44, statusColor, heightFraction(height, 0.58)),
	}
	if t.Note != "" {
		lines = append(lines, drawtextFilter(fontOpt, t.Note, 28, "0xaab2c0", heightFraction(height, 0.72)))
	}
	return strings.Join(lines, ",")
}

func drawtextFilter(fontOpt, text string, size int, color string, y int) string {
	return fmt.Sprintf("drawtext=%stext='%s':fontsize=%d:fontcolor=%s:x=(w-text_w)/2:y=%d",
		fontOpt, escapeDrawtext(text), size, color, y)
}

func heightFraction(height int, fraction float64) int {
	return int(float64(height) * fraction)
}

// colorSource builds the lavfi color input expression for a card.
func (c *Compiler) colorSource(duration float64) string {
	return fmt.Sprintf("color=c=%s:s=%dx%d:d=%.3f:r=%d",
		c.cfg.Video.Background, c.cfg.Video.Width, c.cfg.Video.Height, duration, c.cfg.Video.FPS)
}

// cardArgs builds the ffmpeg invocation for a standalone solid-color card.
func (c *Compiler) cardArgs(card cardText, fontFile string, duration float64, outPath string) []string {
	return append([]string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", c.colorSource(duration),
		"-vf", card.drawtextChain(fontFile, c.cfg.Video.Height),
	}, c.encodeArgs(outPath)...)
}

// stitchedArgs builds the single filter_complex pass producing an intro card
// followed by the rescaled source clip as one segment. The clip is fitted to
// the canonical frame with preserved aspect ratio and centered padding; the
// result carries no audio track.
func (c *Compiler) stitchedArgs(card cardText, fontFile, clipPath string, introSeconds float64, outPath string) []string {
	w, h, fps := c.cfg.Video.Width, c.cfg.Video.Height, c.cfg.Video.FPS
	filter := fmt.Sprintf(
		"[0:v]%s[intro];[1:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1,fps=%d[clip];[intro][clip]concat=n=2:v=1:a=0[out]",
		card.drawtextChain(fontFile, h), w, h, w, h, fps,
	)
	return append([]string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "lavfi", "-i", c.colorSource(introSeconds),
		"-i", clipPath,
		"-filter_complex", filter,
		"-map", "[out]",
	}, c.encodeArgs(outPath)...)
}

// encodeArgs is the uniform encode tail shared by cards, stitched segments,
// and the final concat so every piece agrees on codec parameters.
func (c *Compiler) encodeArgs(outPath string) []string {
	return []string{
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-crf", "23",
		"-pix_fmt", "yuv420p",
		"-an",
		outPath,
	}
}
