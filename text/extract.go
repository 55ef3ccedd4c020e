package text

import (
	"strings"

	"github.com/didymo/lrvsp/model"
)

// inClip reports whether a character belongs to the clip rectangle
func inClip(ch model.Char, clip model.Rect) bool {
	return clip.Contains(ch.Rect.Center())
}

// Extract returns the text inside clip. Each text line that contributes at
// least one character produces one output line terminated by "\n".
func Extract(page *model.Page, clip model.Rect) string {
	var sb strings.Builder
	for _, b := range page.Blocks {
		if !b.HasLines() || !b.Rect.Intersects(clip) {
			continue
		}
		for _, l := range b.Lines {
			wrote := false
			for _, s := range l.Spans {
				for _, ch := range s.Chars {
					if inClip(ch, clip) {
						sb.WriteRune(ch.Rune)
						wrote = true
					}
				}
			}
			if wrote {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}

// ExtractPage returns the text of the whole page
func ExtractPage(page *model.Page) string {
	return Extract(page, page.Rect)
}

// Words returns the words inside clip in extraction order. Whitespace
// characters separate words; a word never spans two lines.
func Words(page *model.Page, clip model.Rect) []model.Word {
	var words []model.Word
	for bi, b := range page.Blocks {
		if !b.HasLines() || !b.Rect.Intersects(clip) {
			continue
		}
		for li, l := range b.Lines {
			var (
				current []model.Char
				index   int
			)
			flush := func() {
				if len(current) == 0 {
					return
				}
				words = append(words, makeWord(current, bi, li, index))
				index++
				current = current[:0]
			}

			for _, s := range l.Spans {
				for _, ch := range s.Chars {
					if !inClip(ch, clip) {
						continue
					}
					if isSpace(ch.Rune) {
						flush()
						continue
					}
					current = append(current, ch)
				}
			}
			flush()
		}
	}
	return words
}

func makeWord(chars []model.Char, block, line, index int) model.Word {
	runes := make([]rune, len(chars))
	r := chars[0].Rect
	for i, ch := range chars {
		runes[i] = ch.Rune
		r = r.Union(ch.Rect)
	}
	return model.Word{
		Rect:  r,
		Text:  string(runes),
		Block: block,
		Line:  line,
		Index: index,
	}
}
