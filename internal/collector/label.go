package collector

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// runtimeSuffixes are appended to artifact directory names by the test
// runner to distinguish browser projects and retries. They carry no signal
// for a human label and are stripped before decoding.
var runtimeSuffixes = []string{"-chromium", "-firefox", "-webkit", "-electron"}

var (
	retrySuffixPattern = regexp.MustCompile(`-retry\d+$`)
	hashTokenPattern   = regexp.MustCompile(`^[a-z0-9]{5}$`)
	digitPattern       = regexp.MustCompile(`[0-9]`)
)

// DecodeLabel turns an artifact directory name following the
// <prefix>-<hash>-<freeform-label> convention into readable text. The hash
// is the first 5-character lowercase alphanumeric token containing a digit;
// everything after it, space-joined, is the label. When the convention does
// not hold the raw directory name is returned unchanged, never an error.
func DecodeLabel(dirName string) string {
	trimmed := strings.TrimSpace(dirName)
	if trimmed == "" {
		return trimmed
	}

	stripped := retrySuffixPattern.ReplaceAllString(trimmed, "")
	for _, suffix := range runtimeSuffixes {
		if strings.HasSuffix(stripped, suffix) && len(stripped) > len(suffix) {
			stripped = strings.TrimSuffix(stripped, suffix)
			break
		}
	}

	tokens := strings.Split(stripped, "-")
	for i, token := range tokens {
		if i == 0 {
			// The leading token is always prefix, never the hash.
			continue
		}
		if !hashTokenPattern.MatchString(token) || !digitPattern.MatchString(token) {
			continue
		}
		rest := tokens[i+1:]
		if len(rest) == 0 {
			break
		}
		label := strings.TrimSpace(strings.Join(rest, " "))
		if label == "" {
			break
		}
		// macOS volumes hand back decomposed unicode; normalize so labels
		// compare and render consistently across platforms.
		return norm.NFC.String(label)
	}

	return norm.NFC.String(trimmed)
}
