// Package layout removes running headers and footers from a document and
// turns the remaining text blocks into ordered plain text.
//
// Page furniture is found statistically. A window of pages is sampled
// (page 0, usually a cover, is skipped) and two kinds of evidence are
// gathered from it:
//
//   - rule lines: horizontal segments in the top or bottom LineFrac of the
//     page that occur at exactly the same rectangle on most sampled pages
//   - text blocks: the first and last EdgeBlocks blocks of each page that sit
//     beyond the rule (or inside SecFrac when there is no rule) and repeat in
//     position and in digit-free text or span styles
//
// Every candidate is compared with every other candidate of its band once,
// and a rectangle is accepted when the number of matching pairs clears a
// ThresholdRule. Accepted header and footer blocks define one full-width
// rectangle per band which is redacted from every page of the document.
//
// The redacted pages are then segmented. A multi-line block is split where
// a line starts inside an abnormally wide horizontal gap between words, so
// that tab-separated columns are emitted as separate fragments.
//
// Basic usage:
//
//	engine, err := layout.NewEngine(layout.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	result, err := engine.Process(doc)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Text)
package layout
