// Package text provides clipped text and word extraction over model pages,
// plus the whitespace normalisation applied to final output.
//
// # Clipped Extraction
//
// [Extract] returns the text of every character whose centre lies inside a
// clip rectangle, one output line per text line:
//
//	s := text.Extract(page, model.Rect{X0: 72, Y0: 100, X1: 300, Y1: 180})
//
// [Words] splits the same characters into whitespace-delimited words with
// their bounding boxes, in block, line, word order:
//
//	words := text.Words(page, block.Rect)
//
// # Normalisation
//
// [CollapseWhitespace] folds every run of whitespace, including non-breaking
// and other Unicode space separators, into a single ASCII space.
package text
