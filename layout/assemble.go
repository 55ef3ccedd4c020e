package layout

import (
	"strings"

	"github.com/didymo/lrvsp/text"
)

// Assemble joins fragments with newlines and collapses every whitespace run
// into a single space.
func Assemble(fragments []Fragment) string {
	parts := make([]string, len(fragments))
	for i, f := range fragments {
		parts[i] = f.Text
	}
	return text.CollapseWhitespace(strings.Join(parts, "\n"))
}
