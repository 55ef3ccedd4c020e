// Package refs finds citations of other documents in extracted text.
package refs

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// MaxEncodedLength is the largest base64 length a reference may have to
// fit the link table
const MaxEncodedLength = 255

// Extractor finds the titles of documents cited by a text
type Extractor interface {
	Extract(text string) []string
}

// legislationPattern matches capitalised titles ending in an instrument
// type and a year, e.g. "Environmental Planning and Assessment Act 1979",
// optionally followed by a bracketed jurisdiction.
const legislationPattern = `(?:\bthe\s+)?` +
	`(?:[A-Z][\w'’()\-]*\s+(?:(?:and|of|for|on|to|in|the|&)\s+)*)+` +
	`(?:Act|Acts|Regulation|Regulations|Rule|Rules|Code|Ordinance|By-law|By-laws)\s+` +
	`\d{4}` +
	`(?:\s+\((?:NSW|Cth|Vic|Qld|SA|WA|Tas|ACT|NT)\))?`

// PatternExtractor extracts legislation titles with a regular expression
type PatternExtractor struct {
	pattern *regexp.Regexp
}

// NewPatternExtractor creates an extractor for legislation titles
func NewPatternExtractor() *PatternExtractor {
	return &PatternExtractor{pattern: regexp.MustCompile(legislationPattern)}
}

// NewExtractorFromPattern creates an extractor using a custom expression
func NewExtractorFromPattern(expr string) (*PatternExtractor, error) {
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return &PatternExtractor{pattern: re}, nil
}

// Extract returns the distinct titles cited in text, sorted
func (e *PatternExtractor) Extract(text string) []string {
	text = norm.NFKC.String(text)

	seen := make(map[string]bool)
	var titles []string
	for _, m := range e.pattern.FindAllString(text, -1) {
		title := Canonical(m)
		if title == "" || !Fits(title) || seen[title] {
			continue
		}
		seen[title] = true
		titles = append(titles, title)
	}
	sort.Strings(titles)
	return titles
}

// Canonical normalises a matched title: a leading "the " is dropped and
// inner whitespace is collapsed
func Canonical(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.TrimPrefix(s, "the ")
	return s
}

// Fits reports whether the base64 encoding of title fits MaxEncodedLength
func Fits(title string) bool {
	return 4*((len(title)+2)/3) < MaxEncodedLength
}
