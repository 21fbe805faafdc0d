package compiler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeDrawtext(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"colon", "setup: login", `setup\: login`},
		{"quote", "user's profile", `user'\\\''s profile`},
		{"percent", "100% coverage", `100\\% coverage`},
		{"backslash", `path\to:file`, `path\\\\to\:file`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, escapeDrawtext(tc.input))
		})
	}
}

// consumeValue mimics ffmpeg's av_get_token: inside a single-quoted section
// every byte is copied verbatim until the closing quote; outside one a
// backslash escapes the next byte and an unescaped separator ends the token.
// Hitting a separator or an unterminated quote fails the test, since a real
// filtergraph would have split the value there.
func consumeValue(t *testing.T, in, separators string) string {
	t.Helper()
	var out strings.Builder
	quoted := false
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch {
		case quoted:
			if c == '\'' {
				quoted = false
				continue
			}
			out.WriteByte(c)
		case c == '\'':
			quoted = true
		case c == '\\':
			i++
			if i >= len(in) {
				t.Fatalf("dangling backslash in %q", in)
			}
			out.WriteByte(in[i])
		case strings.ContainsRune(separators, rune(c)):
			t.Fatalf("unescaped separator %q leaked in %q", c, in)
		default:
			out.WriteByte(c)
		}
	}
	if quoted {
		t.Fatalf("unterminated quote in %q", in)
	}
	return out.String()
}

// expandText mimics drawtext's text expansion: a backslash takes the next
// byte literally, and a bare percent aborts the filter.
func expandText(t *testing.T, in string) string {
	t.Helper()
	var out strings.Builder
	for i := 0; i < len(in); i++ {
		c := in[i]
		switch c {
		case '\\':
			i++
			if i >= len(in) {
				t.Fatalf("dangling backslash in %q", in)
			}
			out.WriteByte(in[i])
		case '%':
			t.Fatalf("stray %% in %q", in)
		default:
			out.WriteByte(c)
		}
	}
	return out.String()
}

func TestEscapeDrawtextSurvivesAllParsePasses(t *testing.T) {
	labels := []string{
		"plain text",
		"user's 100% setup: login",
		"a,b;c [retry] 'quoted' 50%",
		`path\to\file: 100%`,
		"ends with '",
		"%",
		`\`,
	}
	for _, label := range labels {
		t.Run(label, func(t *testing.T) {
			wrapped := "'" + escapeDrawtext(label) + "'"
			graphToken := consumeValue(t, wrapped, ",;[]")
			optionValue := consumeValue(t, graphToken, ":")
			require.Equal(t, label, expandText(t, optionValue))
		})
	}
}

func TestEscapeOptionValueSurvivesBothPasses(t *testing.T) {
	values := []string{
		`C:\Windows\Fonts\arial.ttf`,
		"/usr/share/fonts/DejaVu Sans Mono.ttf",
		"/home/user's fonts/mono.ttf",
	}
	for _, value := range values {
		t.Run(value, func(t *testing.T) {
			wrapped := "'" + escapeOptionValue(value) + "'"
			graphToken := consumeValue(t, wrapped, ",;[]")
			require.Equal(t, value, consumeValue(t, graphToken, ":"))
		})
	}
}

func TestEscapeConcatPath(t *testing.T) {
	assert.Equal(t, "'/tmp/seg-000.mp4'", escapeConcatPath("/tmp/seg-000.mp4"))
	assert.Equal(t, `'/tmp/user'\''s run/seg.mp4'`, escapeConcatPath("/tmp/user's run/seg.mp4"))
	assert.Equal(t, "''", escapeConcatPath(""))
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", truncateLabel("short", 60))

	long := strings.Repeat("x", 70)
	got := truncateLabel(long, 60)
	assert.Equal(t, 60, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "…"))

	assert.Equal(t, "éé…", truncateLabel("ééééé", 3))
	assert.Equal(t, "anything", truncateLabel("anything", 0))
}
