package layout

import (
	"github.com/didymo/lrvsp/model"
)

// placed is a word positioned on a line
type placed struct {
	x float64
	s string
}

// charWidth is the advance of every glyph in the synthetic pages
const charWidth = 5.0

// makeLine builds a one-span text line. Consecutive words are separated by
// a single space glyph stretched over the gap between them.
func makeLine(y0, y1 float64, words ...placed) model.TextLine {
	span := model.Span{Font: "Helvetica", Size: 10}
	var text []rune
	for i, w := range words {
		if i > 0 {
			prev := span.Chars[len(span.Chars)-1].Rect.X1
			span.Chars = append(span.Chars, model.Char{Rect: model.Rect{X0: prev, Y0: y0, X1: w.x, Y1: y1}, Rune: ' '})
			text = append(text, ' ')
		}
		for j, r := range w.s {
			x := w.x + float64(j)*charWidth
			span.Chars = append(span.Chars, model.Char{Rect: model.Rect{X0: x, Y0: y0, X1: x + charWidth, Y1: y1}, Rune: r})
			text = append(text, r)
		}
	}
	span.Text = string(text)
	span.Rect = span.Chars[0].Rect
	for _, ch := range span.Chars[1:] {
		span.Rect = span.Rect.Union(ch.Rect)
	}
	return model.TextLine{Rect: span.Rect, Spans: []model.Span{span}}
}

// textLine is makeLine for a single word
func textLine(x, y0, y1 float64, s string) model.TextLine {
	return makeLine(y0, y1, placed{x, s})
}

func makeBlock(lines ...model.TextLine) model.TextBlock {
	b := model.TextBlock{Rect: lines[0].Rect, Lines: lines}
	for _, l := range lines[1:] {
		b.Rect = b.Rect.Union(l.Rect)
	}
	return b
}

// withRect forces the block rectangle, as a geometry provider padding its
// boxes would
func withRect(b model.TextBlock, r model.Rect) model.TextBlock {
	b.Rect = r
	return b
}

func letterPage() *model.Page {
	return model.NewPage(612, 792)
}

// fixedWindow returns a sampler that always picks w
func fixedWindow(w Window) Sampler {
	return func(int) Window { return w }
}
