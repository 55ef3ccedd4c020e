package model

// Page is a single page of a document as delivered by the geometry provider.
//
// Geometry is treated as read-only. Redactions are recorded with
// AddRedaction and only take effect when ApplyRedactions is called.
type Page struct {
	Number int  // 0-indexed position in the document
	Rect   Rect // page bounds, origin at (0, 0)
	Lines  []LineSegment
	Blocks []TextBlock

	redactions []Rect
}

// NewPage creates an empty page with given dimensions
func NewPage(width, height float64) *Page {
	return &Page{
		Rect: Rect{X1: width, Y1: height},
	}
}

// Width returns the page width
func (p *Page) Width() float64 {
	return p.Rect.Width()
}

// Height returns the page height
func (p *Page) Height() float64 {
	return p.Rect.Height()
}

// TextBlocks returns the blocks that contain text lines, in document order
func (p *Page) TextBlocks() []TextBlock {
	blocks := make([]TextBlock, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		if b.HasLines() {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// AddRedaction records a rectangle to be removed on the next ApplyRedactions
func (p *Page) AddRedaction(r Rect) {
	p.redactions = append(p.redactions, r)
}

// Redactions returns the pending redaction rectangles
func (p *Page) Redactions() []Rect {
	return p.redactions
}

// ApplyRedactions permanently removes all content covered by pending
// redactions and clears them. A character is removed when its centre lies
// inside a redaction rectangle; spans, lines and blocks left without
// characters are dropped and the remaining bounding boxes are recomputed.
// It returns the number of characters removed.
func (p *Page) ApplyRedactions() int {
	if len(p.redactions) == 0 {
		return 0
	}
	redactions := p.redactions
	p.redactions = nil

	covered := func(r Rect) bool {
		c := r.Center()
		for _, rr := range redactions {
			if rr.Contains(c) {
				return true
			}
		}
		return false
	}

	removed := 0
	blocks := make([]TextBlock, 0, len(p.Blocks))
	for _, b := range p.Blocks {
		if !b.HasLines() {
			if !covered(b.Rect) {
				blocks = append(blocks, b)
			}
			continue
		}

		var lines []TextLine
		for _, l := range b.Lines {
			var spans []Span
			for _, s := range l.Spans {
				kept := make([]Char, 0, len(s.Chars))
				for _, ch := range s.Chars {
					if covered(ch.Rect) {
						removed++
						continue
					}
					kept = append(kept, ch)
				}
				if len(kept) == 0 {
					continue
				}
				if len(kept) != len(s.Chars) {
					s = rebuildSpan(s, kept)
				}
				spans = append(spans, s)
			}
			if len(spans) == 0 {
				continue
			}
			l.Spans = spans
			l.Rect = spansRect(spans)
			lines = append(lines, l)
		}
		if len(lines) == 0 {
			continue
		}
		b.Lines = lines
		b.Rect = linesRect(lines)
		blocks = append(blocks, b)
	}
	p.Blocks = blocks

	segments := make([]LineSegment, 0, len(p.Lines))
	for _, seg := range p.Lines {
		inside := false
		for _, rr := range redactions {
			if rr.ContainsRect(seg.Rect) {
				inside = true
				break
			}
		}
		if !inside {
			segments = append(segments, seg)
		}
	}
	p.Lines = segments

	return removed
}

func rebuildSpan(s Span, chars []Char) Span {
	runes := make([]rune, len(chars))
	r := chars[0].Rect
	for i, ch := range chars {
		runes[i] = ch.Rune
		r = r.Union(ch.Rect)
	}
	s.Chars = chars
	s.Text = string(runes)
	s.Rect = r
	return s
}

func spansRect(spans []Span) Rect {
	r := spans[0].Rect
	for _, s := range spans[1:] {
		r = r.Union(s.Rect)
	}
	return r
}

func linesRect(lines []TextLine) Rect {
	r := lines[0].Rect
	for _, l := range lines[1:] {
		r = r.Union(l.Rect)
	}
	return r
}
