package lrvsp

import (
	"fmt"
	"strings"
)

// WarningCode identifies the kind of non-fatal issue found during extraction
type WarningCode int

const (
	// WarnNoChrome means no recurring header or footer was found, so no text
	// was removed from the pages
	WarnNoChrome WarningCode = iota + 1
	// WarnEmptyText means the document produced no text at all
	WarnEmptyText
	// WarnNoReferences means the document cites no other document
	WarnNoReferences
)

func (c WarningCode) String() string {
	switch c {
	case WarnNoChrome:
		return "no-chrome"
	case WarnEmptyText:
		return "empty-text"
	case WarnNoReferences:
		return "no-references"
	default:
		return "unknown"
	}
}

// Warning is a non-fatal issue: extraction succeeded but the result may be
// incomplete.
type Warning struct {
	Code    WarningCode
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings joins warnings into one line for logging
func FormatWarnings(warnings []Warning) string {
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
