package text

import (
	"strings"
	"unicode"
)

// isSpace matches Unicode white space, the BEL control and every space
// separator (em space, figure space and friends).
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\a' || unicode.Is(unicode.Zs, r)
}

// CollapseWhitespace replaces every run of whitespace with one ASCII space.
// Leading and trailing runs are collapsed, not trimmed.
func CollapseWhitespace(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if isSpace(r) {
			if !inSpace {
				sb.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		sb.WriteRune(r)
	}
	return sb.String()
}
