package layout

import (
	"context"
	"math"
	"sort"

	"github.com/didymo/lrvsp/model"
	"github.com/didymo/lrvsp/text"
)

// Fragment is one independently extracted run of text
type Fragment struct {
	Page  int
	Block int
	Rect  model.Rect
	Text  string
}

// Gap is the horizontal space between two adjacent words on one line
type Gap struct {
	model.Rect
}

// TextSegmenter splits blocks at tab stops and column boundaries so that
// unrelated runs of text are never concatenated.
type TextSegmenter struct {
	config Config
}

// NewTextSegmenter creates a segmenter with the given configuration
func NewTextSegmenter(config Config) *TextSegmenter {
	return &TextSegmenter{config: config}
}

// Segment walks every text block of doc in page order and returns the
// resulting fragments. ctx is checked before each page.
func (s *TextSegmenter) Segment(ctx context.Context, doc *model.Document) ([]Fragment, error) {
	var fragments []Fragment
	for _, page := range doc.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for bi, b := range page.Blocks {
			if !b.HasLines() {
				continue
			}
			fragments = append(fragments, s.SegmentBlock(page, bi)...)
		}
	}
	return fragments, nil
}

// SegmentBlock returns the fragments of the block at index bi of page
func (s *TextSegmenter) SegmentBlock(page *model.Page, bi int) []Fragment {
	b := page.Blocks[bi]
	breaks := s.Breaks(page, b)

	fragments := make([]Fragment, 0, len(breaks)+1)
	start := b.Rect.X0
	for _, x := range append(breaks, b.Rect.X1) {
		clip := b.Rect.WithX(start, x)
		fragments = append(fragments, Fragment{
			Page:  page.Number,
			Block: bi,
			Rect:  clip,
			Text:  text.Extract(page, clip),
		})
		start = x
	}
	return fragments
}

// Breaks returns the sorted x coordinates at which block b must be split.
// A break sits where some line starts, lies outside every line's text and
// falls strictly inside an abnormally wide gap between two words.
func (s *TextSegmenter) Breaks(page *model.Page, b model.TextBlock) []float64 {
	if !b.HasLines() {
		return nil
	}
	if math.Abs(b.Rect.Y1-b.Lines[0].Rect.Y1) <= s.config.SingleLineTolerance {
		return nil
	}

	candidates := s.candidates(b)
	if len(candidates) == 0 {
		return nil
	}

	gaps := s.AbnormalGaps(text.Words(page, b.Rect))

	var breaks []float64
	for _, x := range candidates {
		if x == b.Rect.X0 || x == b.Rect.X1 {
			continue
		}
		for _, g := range gaps {
			if x > g.X0 && x < g.X1 {
				breaks = append(breaks, x)
				break
			}
		}
	}
	sort.Float64s(breaks)
	return breaks
}

// candidates returns the floored left edges of the block's lines that do not
// coincide with the block's own left edge and do not cut through any line.
func (s *TextSegmenter) candidates(b model.TextBlock) []float64 {
	left := s.floor(b.Rect.X0)
	seen := make(map[float64]bool)
	var out []float64

	for _, l := range b.Lines {
		x := s.floor(l.Rect.X0)
		if x == left || seen[x] {
			continue
		}
		seen[x] = true

		inside := false
		for _, other := range b.Lines {
			if x > other.Rect.X0 && x < other.Rect.X1 {
				inside = true
				break
			}
		}
		if !inside {
			out = append(out, x)
		}
	}
	return out
}

func (s *TextSegmenter) floor(x float64) float64 {
	return math.Floor(x*s.config.BreakPrecision) / s.config.BreakPrecision
}

// Gaps returns the gaps between each word and its predecessor when the word
// starts to the right of it on the same centreline.
func (s *TextSegmenter) Gaps(words []model.Word) []Gap {
	var gaps []Gap
	for i := 1; i < len(words); i++ {
		prev, cur := words[i-1], words[i]
		if cur.Rect.X0 <= prev.Rect.X1 {
			continue
		}
		if math.Abs(cur.Rect.MidY()-prev.Rect.MidY()) >= s.config.CenterlineTolerance {
			continue
		}
		gaps = append(gaps, Gap{model.Rect{
			X0: prev.Rect.X1,
			Y0: cur.Rect.Y0,
			X1: cur.Rect.X0,
			Y1: prev.Rect.Y1,
		}})
	}
	return gaps
}

// AbnormalGaps returns the gaps wider than GapFactor times the mean gap
func (s *TextSegmenter) AbnormalGaps(words []model.Word) []Gap {
	gaps := s.Gaps(words)

	var sum float64
	for _, g := range gaps {
		sum += g.Width()
	}
	mean := sum / float64(max(len(gaps), 1))

	var abnormal []Gap
	for _, g := range gaps {
		if g.Width() > mean*s.config.GapFactor {
			abnormal = append(abnormal, g)
		}
	}
	return abnormal
}
