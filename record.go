package lrvsp

import (
	"path/filepath"
	"regexp"
	"strings"
)

// idSuffix matches the numeric id the CMS appends to exported file names
var idSuffix = regexp.MustCompile(`_\d+$`)

// Record is what gets stored for one processed document
type Record struct {
	Name     string
	Metadata map[string]string
	Links    []string
}

// DocumentName derives a record name from a file path: the base name with
// its extension and any trailing "_<digits>" id removed.
func DocumentName(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return idSuffix.ReplaceAllString(base, "")
}
