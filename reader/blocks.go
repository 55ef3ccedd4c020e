package reader

import (
	"math"
	"sort"
	"unicode"

	"github.com/didymo/lrvsp/model"
)

// BlockConfig holds configuration for grouping glyphs into lines and blocks
type BlockConfig struct {
	// LineHeightTolerance is the baseline distance, as a fraction of the font
	// size, within which glyphs share a row (default: 0.5)
	LineHeightTolerance float64

	// WordSpacing is the gap, as a fraction of the font size, above which a
	// space is inserted between two glyphs that have none (default: 0.25)
	WordSpacing float64

	// LineGapThreshold is the gap, as a fraction of the font size, that
	// splits one row into separate lines (default: 3.0)
	LineGapThreshold float64

	// ColumnGapThreshold is the gap, as a fraction of the font size, above
	// which two lines on one row belong to different blocks (default: 6.0)
	ColumnGapThreshold float64

	// VerticalGapThreshold is the maximum vertical gap between a block and
	// the next line, as a fraction of the line height (default: 1.5)
	VerticalGapThreshold float64
}

// DefaultBlockConfig returns sensible default configuration
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		LineHeightTolerance:  0.5,
		WordSpacing:          0.25,
		LineGapThreshold:     3.0,
		ColumnGapThreshold:   6.0,
		VerticalGapThreshold: 1.5,
	}
}

// BlockBuilder groups glyphs into text lines and blocks
type BlockBuilder struct {
	config BlockConfig
}

// NewBlockBuilder creates a block builder
func NewBlockBuilder(config BlockConfig) *BlockBuilder {
	return &BlockBuilder{config: config}
}

// line is a text line under construction together with its row
type line struct {
	row  int
	size float64
	text model.TextLine
}

// Build returns the text blocks of a page in reading order
func (b *BlockBuilder) Build(glyphs []glyph) []model.TextBlock {
	if len(glyphs) == 0 {
		return nil
	}

	var lines []line
	for ri, row := range b.groupIntoRows(glyphs) {
		for _, run := range b.splitRow(row) {
			if tl, ok := b.buildLine(run); ok {
				lines = append(lines, line{row: ri, size: run[0].Size, text: tl})
			}
		}
	}
	return b.groupIntoBlocks(lines)
}

// groupIntoRows groups glyphs by baseline, top to bottom, and orders each
// row left to right
func (b *BlockBuilder) groupIntoRows(glyphs []glyph) [][]glyph {
	sorted := make([]glyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Baseline < sorted[j].Baseline
	})

	var rows [][]glyph
	var current []glyph
	var baseline float64
	for _, g := range sorted {
		if len(current) > 0 && math.Abs(g.Baseline-baseline) > g.Size*b.config.LineHeightTolerance {
			rows = append(rows, current)
			current = nil
		}
		if len(current) == 0 {
			baseline = g.Baseline
		}
		current = append(current, g)
	}
	if len(current) > 0 {
		rows = append(rows, current)
	}

	for i := range rows {
		sort.SliceStable(rows[i], func(a, c int) bool {
			return rows[i][a].Rect.X0 < rows[i][c].Rect.X0
		})
	}
	return rows
}

// splitRow cuts a row wherever the horizontal gap is large enough to
// separate two lines
func (b *BlockBuilder) splitRow(row []glyph) [][]glyph {
	var runs [][]glyph
	start := 0
	for i := 1; i < len(row); i++ {
		gap := row[i].Rect.X0 - row[i-1].Rect.X1
		if gap > row[i-1].Size*b.config.LineGapThreshold {
			runs = append(runs, row[start:i])
			start = i
		}
	}
	return append(runs, row[start:])
}

// buildLine turns a run of glyphs into a text line, splitting spans on font
// changes and inserting spaces into unmarked word gaps. Runs holding only
// whitespace produce no line.
func (b *BlockBuilder) buildLine(run []glyph) (model.TextLine, bool) {
	blank := true
	for _, g := range run {
		if !unicode.IsSpace(g.Rune) {
			blank = false
			break
		}
	}
	if blank {
		return model.TextLine{}, false
	}

	var spans []model.Span
	var current *model.Span
	for i, g := range run {
		if current == nil || current.Font != g.Font || current.Size != g.Size {
			spans = append(spans, model.Span{Font: g.Font, Size: g.Size, Rect: g.Rect})
			current = &spans[len(spans)-1]
		}
		if i > 0 {
			prev := run[i-1]
			gap := g.Rect.X0 - prev.Rect.X1
			if gap > g.Size*b.config.WordSpacing && !unicode.IsSpace(prev.Rune) && !unicode.IsSpace(g.Rune) {
				current.Chars = append(current.Chars, model.Char{
					Rect: model.Rect{X0: prev.Rect.X1, Y0: g.Rect.Y0, X1: g.Rect.X0, Y1: g.Rect.Y1},
					Rune: ' ',
				})
			}
		}
		current.Chars = append(current.Chars, g.Char)
	}

	tl := model.TextLine{Spans: spans}
	for i := range tl.Spans {
		s := &tl.Spans[i]
		runes := make([]rune, len(s.Chars))
		for j, ch := range s.Chars {
			runes[j] = ch.Rune
			s.Rect = s.Rect.Union(ch.Rect)
		}
		s.Text = string(runes)
		if i == 0 {
			tl.Rect = s.Rect
		} else {
			tl.Rect = tl.Rect.Union(s.Rect)
		}
	}
	return tl, true
}

// groupIntoBlocks attaches each line to the most recent block it continues
// and starts a new block otherwise
func (b *BlockBuilder) groupIntoBlocks(lines []line) []model.TextBlock {
	var blocks []model.TextBlock
	lastRow := make([]int, 0)

	for _, l := range lines {
		target := -1
		for bi := len(blocks) - 1; bi >= 0; bi-- {
			if b.continues(blocks[bi], lastRow[bi], l) {
				target = bi
				break
			}
		}

		if target < 0 {
			blocks = append(blocks, model.TextBlock{Rect: l.text.Rect, Lines: []model.TextLine{l.text}})
			lastRow = append(lastRow, l.row)
			continue
		}
		blk := &blocks[target]
		blk.Lines = append(blk.Lines, l.text)
		blk.Rect = blk.Rect.Union(l.text.Rect)
		lastRow[target] = l.row
	}
	return blocks
}

func (b *BlockBuilder) continues(blk model.TextBlock, row int, l line) bool {
	r := l.text.Rect
	if row == l.row {
		gap := r.X0 - blk.Rect.X1
		return gap <= l.size*b.config.ColumnGapThreshold
	}

	gap := r.Y0 - blk.Rect.Y1
	if gap > r.Height()*b.config.VerticalGapThreshold {
		return false
	}
	return r.X0 < blk.Rect.X1 && blk.Rect.X0 < r.X1
}
