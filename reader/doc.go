// Package reader converts PDF files into the page records used for layout
// analysis.
//
// # Opening PDF Files
//
// Use [Open] to open a PDF file for reading:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer r.Close()
//
// Or use [NewReader] with any io.ReaderAt. Every failure to open or parse a
// file wraps [ErrOpen], so callers can tell unreadable input apart from
// later processing errors with errors.Is.
//
// Files are validated with pdfcpu in relaxed mode before extraction;
// encrypted files are rejected. Set Options.Validate to false to skip this.
//
// # Page Geometry
//
// [Reader.GetPage] returns a model.Page in page space: origin at the
// top-left corner of the MediaBox, y growing downwards.
//
//   - rectangles drawn with the re operator become LineSegments
//   - glyphs are grouped into rows by baseline, rows are split into lines
//     at wide gaps, and lines are grouped into blocks by [BlockBuilder]
//   - a span is a run of glyphs sharing a font and size
//
// Colors are not available from the content parser and are always zero.
package reader
