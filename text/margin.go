package text

import (
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// TextMarginFinder measures the smallest box containing all text drawn on
// a page, from the descent line to the ascent line of every string.
type TextMarginFinder struct {
	box  model.BBox
	seen bool
}

// BeginTextBlock implements processor.RenderListener.
func (m *TextMarginFinder) BeginTextBlock() {}

// EndTextBlock implements processor.RenderListener.
func (m *TextMarginFinder) EndTextBlock() {}

// RenderImage implements processor.RenderListener.
func (m *TextMarginFinder) RenderImage(*processor.ImageRenderInfo) {}

// RenderText implements processor.RenderListener.
func (m *TextMarginFinder) RenderText(info *processor.TextRenderInfo) {
	asc, desc := info.AscentLine(), info.DescentLine()
	box := model.BBoxOf(asc.Start, asc.End, desc.Start, desc.End)
	if !m.seen {
		m.box, m.seen = box, true
		return
	}
	m.box = m.box.Union(box)
}

// Bounds returns the text area, and false when no text was drawn.
func (m *TextMarginFinder) Bounds() (model.BBox, bool) {
	return m.box, m.seen
}

// Left returns the left edge of the text area.
func (m *TextMarginFinder) Left() float64 { return m.box.Left() }

// Right returns the right edge of the text area.
func (m *TextMarginFinder) Right() float64 { return m.box.Right() }

// Bottom returns the bottom edge of the text area.
func (m *TextMarginFinder) Bottom() float64 { return m.box.Bottom() }

// Top returns the top edge of the text area.
func (m *TextMarginFinder) Top() float64 { return m.box.Top() }
