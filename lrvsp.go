// Package lrvsp turns legislation documents into plain text and the list of
// documents they cite.
//
// Basic usage:
//
//	text, warnings, err := lrvsp.Open("Crimes_Act_1900_40.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", lrvsp.FormatWarnings(warnings))
//	}
//
// A Record bundles the document name, metadata and cited titles as stored
// by the ingestion daemon:
//
//	rec, _, err := lrvsp.Open("act.xml").Record()
//
// PDF files go through header/footer removal and text segmentation (see the
// layout package); XML files are read with the markup package.
package lrvsp

import (
	"github.com/didymo/lrvsp/model"
)

// Open opens a PDF or XML file and returns an Extractor for fluent
// configuration. Nothing is read until a terminal operation such as Text or
// Record is called.
//
// Example:
//
//	text, warnings, err := lrvsp.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already converted document.
// This is useful for geometry produced by another provider.
//
// Example:
//
//	doc, err := reader.ReadDocument("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	text, warnings, err := lrvsp.FromDocument(doc).Text()
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		document: doc,
		options:  defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	name := lrvsp.Must(lrvsp.Open("document.pdf").Name())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or Record() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := lrvsp.MustText(lrvsp.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
