package layout

import (
	"github.com/didymo/lrvsp/model"
)

// Redaction is the pair of rectangles removed from every page. The
// rectangles are expressed for a page of the given width and height; a page
// with other dimensions gets its own full-width variant.
type Redaction struct {
	Header       bool
	HeaderEdge   float64 // bottom of the header band
	Footer       bool
	FooterEdge   float64 // top of the footer band
	Chars        int     // characters removed across the document
	PagesTouched int
}

// Rects returns the redaction rectangles for page
func (r Redaction) Rects(page *model.Page) []model.Rect {
	var rects []model.Rect
	if r.Header {
		rects = append(rects, model.Rect{X0: 0, Y0: 0, X1: page.Width(), Y1: r.HeaderEdge})
	}
	if r.Footer {
		rects = append(rects, model.Rect{X0: 0, Y0: r.FooterEdge, X1: page.Width(), Y1: page.Height()})
	}
	return rects
}

// Redactor removes recurring page furniture from a whole document
type Redactor struct{}

// NewRedactor creates a redactor
func NewRedactor() *Redactor {
	return &Redactor{}
}

// Plan derives the redaction from the detected evidence. A band is only
// redacted when a recurring block was accepted in it; when a rule line was
// also found for that band, the rectangle is widened to include the rule.
func (Redactor) Plan(rules RuleResult, blocks BlockResult) Redaction {
	var r Redaction
	if blocks.Header.Found {
		r.Header = true
		r.HeaderEdge = blocks.Header.Edge
		if rules.Header.Found && rules.Header.Rect.Y1 > r.HeaderEdge {
			r.HeaderEdge = rules.Header.Rect.Y1
		}
	}
	if blocks.Footer.Found {
		r.Footer = true
		r.FooterEdge = blocks.Footer.Edge
		if rules.Footer.Found && rules.Footer.Rect.Y0 < r.FooterEdge {
			r.FooterEdge = rules.Footer.Rect.Y0
		}
	}
	return r
}

// Apply commits plan to every page of doc, sampled or not, and returns the
// plan with the removal totals filled in.
func (Redactor) Apply(doc *model.Document, plan Redaction) Redaction {
	if !plan.Header && !plan.Footer {
		return plan
	}
	for _, page := range doc.Pages {
		for _, rect := range plan.Rects(page) {
			page.AddRedaction(rect)
		}
		n := page.ApplyRedactions()
		plan.Chars += n
		if n > 0 {
			plan.PagesTouched++
		}
	}
	return plan
}
