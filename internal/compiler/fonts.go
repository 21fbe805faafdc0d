package compiler

import (
	"os"
	"strings"
)

// systemFontPaths is a short probe list of fonts commonly present on the
// supported platforms. Absence of all of them is not an error; drawtext
// falls back to its built-in font when no fontfile option is given.
var systemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/System/Library/Fonts/Helvetica.ttc",
	"/Library/Fonts/Arial.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// resolveFont returns the first readable font from the configured extras
// followed by the built-in probe list, or "" when none exist.
func resolveFont(extra []string) string {
	probes := make([]string, 0, len(extra)+len(systemFontPaths))
	probes = append(probes, extra...)
	probes = append(probes, systemFontPaths...)
	for _, path := range probes {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		if info, err := os.Stat(trimmed); err == nil && info.Mode().IsRegular() {
			return trimmed
		}
	}
	return ""
}
