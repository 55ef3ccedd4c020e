package model

// Document is a page-structured document ready for layout analysis
type Document struct {
	Name  string
	Pages []*Page
}

// NewDocument creates a new empty document
func NewDocument(name string) *Document {
	return &Document{
		Name:  name,
		Pages: make([]*Page, 0),
	}
}

// AddPage adds a page to the document
func (d *Document) AddPage(page *Page) {
	page.Number = len(d.Pages)
	d.Pages = append(d.Pages, page)
}

// GetPage returns a page by index (0-indexed)
func (d *Document) GetPage(index int) *Page {
	if index < 0 || index >= len(d.Pages) {
		return nil
	}
	return d.Pages[index]
}

// PageCount returns the total number of pages
func (d *Document) PageCount() int {
	return len(d.Pages)
}

// Clone returns a deep copy of the document so that redactions on the copy
// leave the original untouched.
func (d *Document) Clone() *Document {
	out := &Document{Name: d.Name, Pages: make([]*Page, len(d.Pages))}
	for i, p := range d.Pages {
		np := &Page{
			Number:     p.Number,
			Rect:       p.Rect,
			Lines:      append([]LineSegment(nil), p.Lines...),
			Blocks:     make([]TextBlock, len(p.Blocks)),
			redactions: append([]Rect(nil), p.redactions...),
		}
		for j, b := range p.Blocks {
			nb := TextBlock{Rect: b.Rect, Lines: make([]TextLine, len(b.Lines))}
			for k, l := range b.Lines {
				nl := TextLine{Rect: l.Rect, Spans: make([]Span, len(l.Spans))}
				for m, s := range l.Spans {
					s.Chars = append([]Char(nil), s.Chars...)
					nl.Spans[m] = s
				}
				nb.Lines[k] = nl
			}
			np.Blocks[j] = nb
		}
		out.Pages[i] = np
	}
	return out
}
