package reader

import (
	"github.com/ledongthuc/pdf"

	"github.com/didymo/lrvsp/model"
)

// letter is the fallback page size when no MediaBox can be found
var letter = model.Rect{X1: 612, Y1: 792}

// glyph is one positioned character in page coordinates (origin top-left)
type glyph struct {
	model.Char
	Font     string
	Size     float64
	Baseline float64
}

// mediaBox returns the page's MediaBox, searching parent page tree nodes
// when the page does not carry its own.
func mediaBox(p pdf.Page) model.Rect {
	for v := p.V; !v.IsNull(); v = v.Key("Parent") {
		box := v.Key("MediaBox")
		if box.Kind() != pdf.Array || box.Len() != 4 {
			continue
		}
		var c [4]float64
		for i := range c {
			c[i] = number(box.Index(i))
		}
		if r := model.NewRect(c[0], c[1], c[2], c[3]); !r.IsEmpty() {
			return r
		}
	}
	return letter
}

func number(v pdf.Value) float64 {
	switch v.Kind() {
	case pdf.Integer:
		return float64(v.Int64())
	case pdf.Real:
		return v.Float64()
	}
	return 0
}

// toPage converts a point in PDF user space (origin bottom-left) into page
// space (origin top-left, y downwards) for the given MediaBox.
func toPage(x, y float64, box model.Rect) (float64, float64) {
	return x - box.X0, box.Y1 - y
}

// convertRects turns filled or stroked rectangles into line segments
func convertRects(rects []pdf.Rect, box model.Rect) []model.LineSegment {
	segments := make([]model.LineSegment, 0, len(rects))
	for _, r := range rects {
		x0, y0 := toPage(r.Min.X, r.Max.Y, box)
		x1, y1 := toPage(r.Max.X, r.Min.Y, box)
		segments = append(segments, model.LineSegment{Rect: model.NewRect(x0, y0, x1, y1)})
	}
	return segments
}

// Fractions of the font size above and below the baseline covered by a glyph
const (
	ascent  = 0.8
	descent = 0.2

	// advance used when the font carries no width table
	defaultAdvance = 0.5
)

// convertGlyphs turns the page's text elements into glyphs. Fonts without
// a width table report zero widths, so every character of a string lands on
// the same x; such characters are laid out one estimated advance apart.
func convertGlyphs(texts []pdf.Text, box model.Rect) []glyph {
	glyphs := make([]glyph, 0, len(texts))
	var (
		prev    glyph
		hasPrev bool
	)
	for _, t := range texts {
		runes := []rune(t.S)
		if len(runes) == 0 || t.FontSize <= 0 {
			continue
		}

		x, baseline := toPage(t.X, t.Y, box)
		advance := t.W / float64(len(runes))
		estimated := advance <= 0
		if estimated {
			advance = t.FontSize * defaultAdvance
			if hasPrev && prev.Baseline == baseline && x <= prev.Rect.X0 {
				x = prev.Rect.X1
			}
		}

		for _, r := range runes {
			g := glyph{
				Char: model.Char{
					Rect: model.Rect{
						X0: x,
						Y0: baseline - t.FontSize*ascent,
						X1: x + advance,
						Y1: baseline + t.FontSize*descent,
					},
					Rune: r,
				},
				Font:     t.Font,
				Size:     t.FontSize,
				Baseline: baseline,
			}
			glyphs = append(glyphs, g)
			prev, hasPrev = g, true
			x += advance
		}
	}
	return glyphs
}
