package layout

import (
	"math"
	"regexp"
	"sort"

	"github.com/didymo/lrvsp/model"
)

var digits = regexp.MustCompile(`\d`)

// BlockBand is the outcome of block detection for one band
type BlockBand struct {
	// Found is true when at least one block rectangle was accepted
	Found bool
	// Edge is headerBottom for the header band and footerTop for the footer
	Edge float64
	// Limit is the y coordinate candidates had to clear on the first
	// sampled page (rule edge or the fallback fraction)
	Limit float64
	// Accepted lists every rectangle that cleared the threshold
	Accepted []model.Rect
	// Counts is the raw pair count per rectangle
	Counts RecurrenceCount
}

// BlockResult holds the recurring header and footer blocks of a document
type BlockResult struct {
	Header BlockBand
	Footer BlockBand
}

// BlockRecurrenceDetector finds text blocks repeated across sampled pages
type BlockRecurrenceDetector struct {
	config Config
}

// NewBlockRecurrenceDetector creates a detector with the given configuration
func NewBlockRecurrenceDetector(config Config) *BlockRecurrenceDetector {
	return &BlockRecurrenceDetector{config: config}
}

// candidate is a block paired with its precomputed comparison keys
type candidate struct {
	block  model.TextBlock
	text   string // span text with digits removed
	styles []model.Style
}

// Detect examines the sampled pages. rules bounds the search bands; a band
// without a rule falls back to SecFrac of the page height.
func (d *BlockRecurrenceDetector) Detect(pages []*model.Page, pageCount int, rules RuleResult) BlockResult {
	var headers, footers []candidate
	var result BlockResult

	for i, page := range pages {
		headerLimit := page.Height() * d.config.SecFrac
		if rules.Header.Found {
			headerLimit = rules.Header.Rect.Y1
		}
		footerLimit := page.Height() * (1 - d.config.SecFrac)
		if rules.Footer.Found {
			footerLimit = rules.Footer.Rect.Y0
		}
		if i == 0 {
			result.Header.Limit = headerLimit
			result.Footer.Limit = footerLimit
		}

		for _, b := range d.edgeBlocks(page) {
			if b.Rect.Y1 < headerLimit {
				headers = append(headers, newCandidate(b))
			}
			if b.Rect.Y0 > footerLimit {
				footers = append(footers, newCandidate(b))
			}
		}
	}

	result.Header.Counts = countPairs(headers, d.similar, candidateKey, d.config.Workers)
	result.Header.Accepted = result.Header.Counts.Accepted(d.config.BlockThreshold, pageCount)
	for _, r := range result.Header.Accepted {
		// the deepest point any recurring header block reaches
		if !result.Header.Found || r.Y1 > result.Header.Edge {
			result.Header.Found = true
			result.Header.Edge = r.Y1
		}
	}

	result.Footer.Counts = countPairs(footers, d.similar, candidateKey, d.config.Workers)
	result.Footer.Accepted = result.Footer.Counts.Accepted(d.config.BlockThreshold, pageCount)
	for _, r := range result.Footer.Accepted {
		// the highest point any recurring footer block reaches
		if !result.Footer.Found || r.Y0 < result.Footer.Edge {
			result.Footer.Found = true
			result.Footer.Edge = r.Y0
		}
	}

	return result
}

// edgeBlocks returns the first and last EdgeBlocks text blocks of a page.
// A block in both ranges is returned once.
func (d *BlockRecurrenceDetector) edgeBlocks(page *model.Page) []model.TextBlock {
	blocks := page.TextBlocks()
	n := d.config.EdgeBlocks
	if len(blocks) <= 2*n {
		return blocks
	}
	edges := make([]model.TextBlock, 0, 2*n)
	edges = append(edges, blocks[:n]...)
	edges = append(edges, blocks[len(blocks)-n:]...)
	return edges
}

func newCandidate(b model.TextBlock) candidate {
	return candidate{
		block:  b,
		text:   digits.ReplaceAllString(b.Text(), ""),
		styles: sortedStyles(b.Styles()),
	}
}

func candidateKey(c candidate) model.Rect {
	return c.block.Rect
}

// similar is the recurrence key for blocks: they share a vertical edge and a
// horizontal edge within Diff, and either carry the same text once digits
// are removed or use the same multiset of span styles.
func (d *BlockRecurrenceDetector) similar(a, b candidate) bool {
	ra, rb := a.block.Rect, b.block.Rect
	diff := d.config.Diff

	sharesX := math.Abs(ra.X0-rb.X0) < diff || math.Abs(ra.X1-rb.X1) < diff
	if !sharesX {
		return false
	}
	sharesY := math.Abs(ra.Y0-rb.Y0) < diff || math.Abs(ra.Y1-rb.Y1) < diff
	if !sharesY {
		return false
	}

	if a.text == b.text {
		return true
	}
	return equalStyles(a.styles, b.styles)
}

func sortedStyles(styles []model.Style) []model.Style {
	sort.Slice(styles, func(i, j int) bool {
		a, b := styles[i], styles[j]
		if a.Color != b.Color {
			return a.Color < b.Color
		}
		if a.Font != b.Font {
			return a.Font < b.Font
		}
		return a.Size < b.Size
	})
	return styles
}

func equalStyles(a, b []model.Style) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
