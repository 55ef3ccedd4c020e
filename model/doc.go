// Package model provides the typed page geometry consumed by the layout
// engine.
//
// A [Document] holds ordered [Page] values. Each page exposes its bounds,
// the drawn rules found on it ([LineSegment]) and its text as a hierarchy of
// [TextBlock], [TextLine], [Span] and [Char]. Geometry providers such as the
// reader package build these records once; everything downstream treats
// them as read-only.
//
// # Geometry
//
// [Rect] uses a top-left origin with Y growing downwards, so a header lives
// at small Y and a footer at large Y. Rect is comparable and doubles as the
// canonical key when counting recurring elements.
//
// # Redaction
//
// Content is removed in two steps:
//
//	page.AddRedaction(model.Rect{X0: 0, Y0: 0, X1: page.Width(), Y1: 40})
//	removed := page.ApplyRedactions()
//
// Only ApplyRedactions mutates the page.
package model
