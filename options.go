package pdftext

import (
	"log/slog"
	"maps"

	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// StrategyKind selects how page text is assembled.
type StrategyKind int

const (
	// Simple keeps content stream order, breaking lines when the baseline
	// moves.
	Simple StrategyKind = iota
	// Location sorts text into reading order by position.
	Location
	// Fragments groups positioned fragments into lines, with right-to-left
	// lines reordered.
	Fragments
)

// String returns the lower-case name of the strategy.
func (k StrategyKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Location:
		return "location"
	case Fragments:
		return "fragments"
	}
	return "unknown"
}

// ParseStrategy returns the strategy with the given name.
func ParseStrategy(name string) (StrategyKind, bool) {
	for _, k := range []StrategyKind{Simple, Location, Fragments} {
		if k.String() == name {
			return k, true
		}
	}
	return Simple, false
}

// ExtractOptions holds configuration for extraction.
type ExtractOptions struct {
	// Page selection, 1-indexed; nil means all pages
	pages []int

	strategy  StrategyKind
	normalize bool

	// Filtering
	region      *model.BBox
	visibleOnly bool

	// Custom content operators, registered over the defaults
	operators map[string]processor.ContentOperator

	logger  *slog.Logger
	metrics metrics.Reporter

	htmlTitle string

	// OCR of pages without text
	ocr         bool
	ocrLanguage string
	ocrMinArea  float64
}

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		strategy:   Simple,
		metrics:    metrics.Nop,
		ocrMinArea: 10000,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := o
	if o.pages != nil {
		newOpts.pages = make([]int, len(o.pages))
		copy(newOpts.pages, o.pages)
	}
	if o.region != nil {
		r := *o.region
		newOpts.region = &r
	}
	if o.operators != nil {
		newOpts.operators = maps.Clone(o.operators)
	}
	return newOpts
}
