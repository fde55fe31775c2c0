// Package sanitize provides helpers for placing untrusted text into contexts
// that have no escaping of their own. Stored data is never sanitized.
package sanitize

import (
	"strings"
	"unicode"
)

// HeaderLine makes s safe for a single-line header such as an email subject:
// control characters (CR and LF included) become spaces, runs of whitespace
// collapse, and the result is cut to maxRunes.
func HeaderLine(s string, maxRunes int) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := false
	for _, r := range s {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
			continue
		}
		b.WriteRune(r)
		lastSpace = false
	}

	out := strings.TrimSpace(b.String())
	if maxRunes > 0 {
		runes := []rune(out)
		if len(runes) > maxRunes {
			out = strings.TrimSpace(string(runes[:maxRunes]))
		}
	}
	return out
}
