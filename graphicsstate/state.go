package graphicsstate

import (
	"errors"

	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/model"
)

// ErrStackUnderflow is returned by Restore when no state was saved.
var ErrStackUnderflow = errors.New("graphics state stack underflow")

// GraphicsState is the part of the PDF graphics state that affects text
// and geometry.
type GraphicsState struct {
	CTM  model.Matrix
	Text TextState

	LineWidth   float64
	StrokeColor [3]float64 // RGB
	FillColor   [3]float64 // RGB

	stack []snapshot
}

// TextState holds the text parameters set by Tc, Tw, Tz, TL, Tf, Tr and Ts.
type TextState struct {
	// Font is the font selected by Tf, nil until one is selected.
	Font     font.Font
	FontName string // resource name, such as "F1"
	FontSize float64

	CharSpacing float64
	WordSpacing float64

	// HorizontalScaling is a percentage; 100 is unscaled.
	HorizontalScaling float64

	Leading       float64
	RenderingMode int
	Rise          float64
}

type snapshot struct {
	ctm       model.Matrix
	text      TextState
	lineWidth float64
	stroke    [3]float64
	fill      [3]float64
}

// New returns the initial graphics state: identity CTM, black colours,
// unit line width and 100% horizontal scaling.
func New() *GraphicsState {
	return &GraphicsState{
		CTM:       model.Identity(),
		LineWidth: 1,
		Text: TextState{
			HorizontalScaling: 100,
		},
	}
}

// Save pushes a copy of the current state (q).
func (gs *GraphicsState) Save() {
	gs.stack = append(gs.stack, snapshot{
		ctm:       gs.CTM,
		text:      gs.Text,
		lineWidth: gs.LineWidth,
		stroke:    gs.StrokeColor,
		fill:      gs.FillColor,
	})
}

// Restore pops the most recently saved state (Q).
func (gs *GraphicsState) Restore() error {
	if len(gs.stack) == 0 {
		return ErrStackUnderflow
	}
	s := gs.stack[len(gs.stack)-1]
	gs.stack = gs.stack[:len(gs.stack)-1]

	gs.CTM = s.ctm
	gs.Text = s.text
	gs.LineWidth = s.lineWidth
	gs.StrokeColor = s.stroke
	gs.FillColor = s.fill
	return nil
}

// RestoreTo pops saved states until at most depth remain.
func (gs *GraphicsState) RestoreTo(depth int) {
	for len(gs.stack) > depth {
		_ = gs.Restore()
	}
}

// Depth returns the number of saved states.
func (gs *GraphicsState) Depth() int {
	return len(gs.stack)
}

// Concat premultiplies the CTM by m (cm): CTM = m × CTM.
func (gs *GraphicsState) Concat(m model.Matrix) {
	gs.CTM = m.Multiply(gs.CTM)
}

// SetFont selects a font and size (Tf).
func (gs *GraphicsState) SetFont(name string, f font.Font, size float64) {
	gs.Text.FontName = name
	gs.Text.Font = f
	gs.Text.FontSize = size
}

// HorizontalScale returns Tz as a factor.
func (gs *GraphicsState) HorizontalScale() float64 {
	return gs.Text.HorizontalScaling / 100
}

// SetStrokeGray sets the stroke colour from a gray level (G).
func (gs *GraphicsState) SetStrokeGray(g float64) {
	gs.StrokeColor = [3]float64{g, g, g}
}

// SetFillGray sets the fill colour from a gray level (g).
func (gs *GraphicsState) SetFillGray(g float64) {
	gs.FillColor = [3]float64{g, g, g}
}

// SetStrokeRGB sets the stroke colour (RG).
func (gs *GraphicsState) SetStrokeRGB(r, g, b float64) {
	gs.StrokeColor = [3]float64{r, g, b}
}

// SetFillRGB sets the fill colour (rg).
func (gs *GraphicsState) SetFillRGB(r, g, b float64) {
	gs.FillColor = [3]float64{r, g, b}
}

// SetStrokeCMYK sets the stroke colour from CMYK components (K).
func (gs *GraphicsState) SetStrokeCMYK(c, m, y, k float64) {
	r, g, b := cmykToRGB(c, m, y, k)
	gs.StrokeColor = [3]float64{r, g, b}
}

// SetFillCMYK sets the fill colour from CMYK components (k).
func (gs *GraphicsState) SetFillCMYK(c, m, y, k float64) {
	r, g, b := cmykToRGB(c, m, y, k)
	gs.FillColor = [3]float64{r, g, b}
}

// cmykToRGB is the naive complement conversion.
func cmykToRGB(c, m, y, k float64) (r, g, b float64) {
	r = (1 - c) * (1 - k)
	g = (1 - m) * (1 - k)
	b = (1 - y) * (1 - k)
	return
}
