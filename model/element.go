package model

import "strings"

// LineSegment is a drawn rule on a page
type LineSegment struct {
	Rect Rect
}

// IsHorizontal reports whether the segment is wider than it is tall
func (l LineSegment) IsHorizontal() bool {
	return l.Rect.Width() > l.Rect.Height()
}

// Char is a single positioned glyph
type Char struct {
	Rect Rect
	Rune rune
}

// Span is a run of characters sharing one font, size and color
type Span struct {
	Text  string
	Font  string
	Size  float64
	Color uint32
	Rect  Rect
	Chars []Char
}

// Style identifies the visual appearance of a span
type Style struct {
	Color uint32
	Font  string
	Size  float64
}

// Style returns the span's (color, font, size) tuple
func (s Span) Style() Style {
	return Style{Color: s.Color, Font: s.Font, Size: s.Size}
}

// TextLine is a line of text inside a block
type TextLine struct {
	Rect  Rect
	Spans []Span
}

// Text concatenates the span texts of the line
func (l TextLine) Text() string {
	var sb strings.Builder
	for _, s := range l.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// TextBlock is a rectangular group of text lines
type TextBlock struct {
	Rect  Rect
	Lines []TextLine
}

// HasLines reports whether the block carries text
func (b TextBlock) HasLines() bool {
	return len(b.Lines) > 0
}

// Text concatenates every span of every line with no separator
func (b TextBlock) Text() string {
	var sb strings.Builder
	for _, l := range b.Lines {
		for _, s := range l.Spans {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// Styles returns the style of every span in document order
func (b TextBlock) Styles() []Style {
	var styles []Style
	for _, l := range b.Lines {
		for _, s := range l.Spans {
			styles = append(styles, s.Style())
		}
	}
	return styles
}

// Word is a whitespace-delimited run of characters on one line
type Word struct {
	Rect  Rect
	Text  string
	Block int // index of the owning block on its page
	Line  int // index of the line inside the block
	Index int // position of the word inside the line
}
