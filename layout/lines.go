package layout

import (
	"github.com/didymo/lrvsp/model"
)

// Rule is a recurring horizontal line separating page furniture from body
type Rule struct {
	Found bool
	Rect  model.Rect
}

// RuleResult holds the header and footer rules of a document
type RuleResult struct {
	Header RuleBand
	Footer RuleBand
}

// RuleBand is the outcome of rule detection for one band
type RuleBand struct {
	Rule
	// Accepted lists every rectangle that cleared the threshold
	Accepted []model.Rect
	// Counts is the raw pair count per rectangle
	Counts RecurrenceCount
}

// LineRecurrenceDetector finds rule lines repeated across sampled pages
type LineRecurrenceDetector struct {
	config Config
}

// NewLineRecurrenceDetector creates a detector with the given configuration
func NewLineRecurrenceDetector(config Config) *LineRecurrenceDetector {
	return &LineRecurrenceDetector{config: config}
}

// Detect examines the sampled pages. pageCount is the sample size the
// acceptance threshold is scaled by.
func (d *LineRecurrenceDetector) Detect(pages []*model.Page, pageCount int) RuleResult {
	var headers, footers []model.LineSegment
	for _, page := range pages {
		h, f := d.candidates(page)
		headers = append(headers, h...)
		footers = append(footers, f...)
	}

	var result RuleResult

	result.Header.Counts = countPairs(headers, sameLine, lineKey, d.config.Workers)
	result.Header.Accepted = result.Header.Counts.Accepted(d.config.LineThreshold, pageCount)
	for _, r := range result.Header.Accepted {
		// closest to the top of the page
		if !result.Header.Found || r.Y1 < result.Header.Rect.Y1 {
			result.Header.Rule = Rule{Found: true, Rect: r}
		}
	}

	result.Footer.Counts = countPairs(footers, sameLine, lineKey, d.config.Workers)
	result.Footer.Accepted = result.Footer.Counts.Accepted(d.config.LineThreshold, pageCount)
	for _, r := range result.Footer.Accepted {
		// closest to the bottom of the page
		if !result.Footer.Found || r.Y0 > result.Footer.Rect.Y0 {
			result.Footer.Rule = Rule{Found: true, Rect: r}
		}
	}

	return result
}

// candidates returns the horizontal segments in the top and bottom bands
func (d *LineRecurrenceDetector) candidates(page *model.Page) (headers, footers []model.LineSegment) {
	height := page.Height()
	for _, seg := range page.Lines {
		if !seg.IsHorizontal() {
			continue
		}
		if seg.Rect.Y1 < height*d.config.LineFrac {
			headers = append(headers, seg)
		}
		if seg.Rect.Y0 > height*(1-d.config.LineFrac) {
			footers = append(footers, seg)
		}
	}
	return headers, footers
}

// sameLine is the recurrence key for rules: identical rectangles
func sameLine(a, b model.LineSegment) bool {
	return a.Rect == b.Rect
}

func lineKey(l model.LineSegment) model.Rect {
	return l.Rect
}
