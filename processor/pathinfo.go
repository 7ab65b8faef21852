package processor

import (
	"github.com/tsawler/pdftext/graphicsstate"
	"github.com/tsawler/pdftext/model"
)

// PaintOp says how a path was painted. Values combine as flags.
type PaintOp int

const (
	// NoPaint ends a path without painting it (n). Such paths are not
	// reported.
	NoPaint PaintOp = 0
	// Stroke is set for S, s, B, B*, b and b*.
	Stroke PaintOp = 1
	// Fill is set for f, F, f*, B, B*, b and b*.
	Fill PaintOp = 2
)

// FillRule is the rule used for filled paths.
type FillRule int

const (
	// NonZeroWinding is used by f, F, B and b.
	NonZeroWinding FillRule = iota
	// EvenOdd is used by the starred operators.
	EvenOdd
)

// PathRenderInfo describes a painted path.
type PathRenderInfo struct {
	Operation PaintOp
	Rule      FillRule

	// Path is in the coordinates written in the content stream; CTM maps
	// it to user space.
	Path *graphicsstate.Path
	CTM  model.Matrix

	LineWidth   float64
	StrokeColor [3]float64
	FillColor   [3]float64
	MCID        int
}

// Lines returns the straight edges of the path in user space.
func (info *PathRenderInfo) Lines() []model.LineSegment {
	return info.Path.LineSegments(info.CTM)
}

// Rect returns the user space bounds of the path if it is a rectangle.
func (info *PathRenderInfo) Rect() (model.BBox, bool) {
	return info.Path.Rect(info.CTM)
}
