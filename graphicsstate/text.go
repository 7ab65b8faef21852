package graphicsstate

import "github.com/tsawler/pdftext/model"

// TextObject holds the text matrix and text line matrix of a BT ... ET
// block.
type TextObject struct {
	Matrix     model.Matrix
	LineMatrix model.Matrix
}

// NewTextObject returns a text object with identity matrices.
func NewTextObject() *TextObject {
	t := &TextObject{}
	t.Begin()
	return t
}

// Begin resets both matrices (BT).
func (t *TextObject) Begin() {
	t.Matrix = model.Identity()
	t.LineMatrix = model.Identity()
}

// SetMatrices replaces both matrices (Tm).
func (t *TextObject) SetMatrices(m model.Matrix) {
	t.Matrix = m
	t.LineMatrix = m
}

// MoveLine starts a new line offset by (tx, ty) from the start of the
// current one (Td).
func (t *TextObject) MoveLine(tx, ty float64) {
	t.LineMatrix = model.Translate(tx, ty).Multiply(t.LineMatrix)
	t.Matrix = t.LineMatrix
}

// NextLine moves down by the leading (T*).
func (t *TextObject) NextLine(leading float64) {
	t.MoveLine(0, -leading)
}

// Advance moves the text matrix by tx along the baseline, after a glyph or
// a TJ adjustment.
func (t *TextObject) Advance(tx float64) {
	t.Matrix = model.Translate(tx, 0).Multiply(t.Matrix)
}

// TextToUser returns the matrix mapping text space to user space for the
// given CTM.
func (t *TextObject) TextToUser(ctm model.Matrix) model.Matrix {
	return t.Matrix.Multiply(ctm)
}
