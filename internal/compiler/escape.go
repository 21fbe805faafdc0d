package compiler

import "strings"

// Overlay text rides inside a single-quoted drawtext text= value, and ffmpeg
// parses the result three times: filtergraph tokenization, option parsing,
// then drawtext's own text expansion. The first pass copies a quoted section
// verbatim and strips the quotes, so the separators only need the single
// backslash the option pass consumes, while percent and backslash need one
// escape per remaining pass. A quote cannot appear inside the quoted section
// at all: it is emitted by closing the section, writing an escaped quote,
// and reopening.
var drawtextReplacer = strings.NewReplacer(
	`\`, `\\\\`,
	`'`, `'\\\''`,
	`%`, `\\%`,
	`:`, `\:`,
	`,`, `\,`,
	`;`, `\;`,
	`[`, `\[`,
	`]`, `\]`,
)

// escapeDrawtext makes text safe inside a single-quoted drawtext text=
// option value.
func escapeDrawtext(text string) string {
	return drawtextReplacer.Replace(text)
}

// optionValueReplacer escapes for plain single-quoted option values such as
// fontfile: both tokenizer passes apply but text expansion does not, so
// backslash needs one level less than overlay text.
var optionValueReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `'\\\''`,
	`:`, `\:`,
)

// escapeOptionValue makes a value safe inside a single-quoted filter option.
func escapeOptionValue(value string) string {
	return optionValueReplacer.Replace(value)
}

// escapeConcatPath quotes a path for an ffmpeg concat demuxer list file.
// Entries are single-quoted; embedded quotes use the '\'' shell idiom.
func escapeConcatPath(path string) string {
	return "'" + strings.ReplaceAll(path, "'", `'\''`) + "'"
}

// truncateLabel caps a label at max runes, appending an ellipsis when it
// was cut. Overlay space is fixed, labels are not.
func truncateLabel(label string, max int) string {
	if max <= 0 {
		return label
	}
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max-1]) + "…"
}
