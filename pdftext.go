// Package pdftext provides a fluent API for extracting text and images
// from PDF files.
//
// Basic usage:
//
//	text, warnings, err := pdftext.Open("document.pdf").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdftext.FormatWarnings(warnings))
//	}
//
// With options:
//
//	text, _, err := pdftext.Open("report.pdf").
//	    Pages(1, 2, 3).
//	    Strategy(pdftext.Location).
//	    Normalize().
//	    Text()
//
// The reader, processor and text packages underneath are available for
// custom listeners and operators.
package pdftext

import (
	"github.com/tsawler/pdftext/reader"
)

// Open returns an Extractor for the named file. The file is opened by the
// first terminal operation and closed when it returns.
//
// Example:
//
//	text, warnings, err := pdftext.Open("document.pdf").Text()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromBytes returns an Extractor for a document held in memory.
func FromBytes(data []byte) *Extractor {
	return &Extractor{
		data:    data,
		options: defaultOptions(),
	}
}

// FromReader returns an Extractor over an already-opened reader.Reader.
// The caller is responsible for closing the reader.
//
// Example:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//	    // handle error
//	}
//	defer r.Close()
//	text, warnings, err := pdftext.FromReader(r).Text()
func FromReader(r *reader.Reader) *Extractor {
	return &Extractor{
		reader:       r,
		ownsReader:   false,
		readerOpened: true,
		options:      defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	count := pdftext.Must(pdftext.Open("document.pdf").PageCount())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustText is a helper that wraps a call to Text() or Fragments() and panics
// if the error is non-nil. It discards warnings and returns just the value.
//
// Example:
//
//	text := pdftext.MustText(pdftext.Open("document.pdf").Text())
func MustText[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
