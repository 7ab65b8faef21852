package processor

import (
	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/graphicsstate"
	"github.com/tsawler/pdftext/model"
)

// TextRenderInfo describes one string shown by a text operator.
type TextRenderInfo struct {
	text   string
	glyphs []font.Glyph
	state  graphicsstate.TextState
	font   font.Font

	tm, ctm model.Matrix
	width   float64 // advance in unscaled text space
	mcid    int

	// set by NewTextRenderInfo
	synthetic  bool
	baseline   model.LineSegment
	spaceWidth float64
}

func newTextRenderInfo(glyphs []font.Glyph, state graphicsstate.TextState, f font.Font, tm, ctm model.Matrix, mcid int) *TextRenderInfo {
	info := &TextRenderInfo{
		glyphs: glyphs,
		state:  state,
		font:   f,
		tm:     tm,
		ctm:    ctm,
		mcid:   mcid,
	}
	n := 0
	for _, g := range glyphs {
		n += len(g.Text)
	}
	text := make([]byte, 0, n)
	for _, g := range glyphs {
		text = append(text, g.Text...)
		info.width += info.glyphAdvance(g)
	}
	info.text = string(text)
	return info
}

// NewTextRenderInfo builds an event that did not come from a content
// stream, for feeding strategies directly.
func NewTextRenderInfo(text string, baseline model.LineSegment, spaceWidth float64) *TextRenderInfo {
	return &TextRenderInfo{
		text:       text,
		synthetic:  true,
		baseline:   baseline,
		spaceWidth: spaceWidth,
		mcid:       -1,
		tm:         model.Identity(),
		ctm:        model.Identity(),
		state:      graphicsstate.TextState{HorizontalScaling: 100},
	}
}

// glyphAdvance is (w0·Tfs/1000 + Tc + Tw)·Th, with Tw only for the single
// byte code 32.
func (info *TextRenderInfo) glyphAdvance(g font.Glyph) float64 {
	w := g.Width/1000*info.state.FontSize + info.state.CharSpacing
	if g.IsSpace {
		w += info.state.WordSpacing
	}
	return w * info.state.HorizontalScaling / 100
}

func (info *TextRenderInfo) textToUser() model.Matrix {
	return info.tm.Multiply(info.ctm)
}

// line returns the segment (0,y)-(width,y) in user space.
func (info *TextRenderInfo) line(y float64) model.LineSegment {
	return model.LineSegment{
		Start: model.Vector{X: 0, Y: y},
		End:   model.Vector{X: info.width, Y: y},
	}.Transform(info.textToUser())
}

// Text returns the decoded text.
func (info *TextRenderInfo) Text() string { return info.text }

// Glyphs returns the decoded glyphs.
func (info *TextRenderInfo) Glyphs() []font.Glyph { return info.glyphs }

// Baseline returns the line the text sits on in user space, including the
// text rise.
func (info *TextRenderInfo) Baseline() model.LineSegment {
	if info.synthetic {
		return info.baseline
	}
	return info.line(info.state.Rise)
}

// UnscaledBaseline returns the baseline in user space without the text
// rise.
func (info *TextRenderInfo) UnscaledBaseline() model.LineSegment {
	if info.synthetic {
		return info.baseline
	}
	return info.line(0)
}

// AscentLine returns the line at the font's ascent above the baseline.
func (info *TextRenderInfo) AscentLine() model.LineSegment {
	if info.synthetic {
		return info.baseline
	}
	return info.line(info.font.Ascent()/1000*info.state.FontSize + info.state.Rise)
}

// DescentLine returns the line at the font's descent below the baseline.
func (info *TextRenderInfo) DescentLine() model.LineSegment {
	if info.synthetic {
		return info.baseline
	}
	return info.line(info.font.Descent()/1000*info.state.FontSize + info.state.Rise)
}

// SingleSpaceWidth returns the width of a space in user space.
func (info *TextRenderInfo) SingleSpaceWidth() float64 {
	if info.synthetic {
		return info.spaceWidth
	}
	w := info.font.SpaceWidth() / 1000 * info.state.FontSize * info.state.HorizontalScaling / 100
	return model.LineSegment{End: model.Vector{X: w}}.Transform(info.textToUser()).Length()
}

// Font returns the font the text was shown with, nil for synthetic events.
func (info *TextRenderInfo) Font() font.Font { return info.font }

// FontSize returns the Tf size.
func (info *TextRenderInfo) FontSize() float64 { return info.state.FontSize }

// Rise returns the text rise converted to user space.
func (info *TextRenderInfo) Rise() float64 {
	if info.state.Rise == 0 {
		return 0
	}
	m := info.textToUser()
	return model.LineSegment{End: model.Vector{Y: info.state.Rise}}.Transform(m).Length()
}

// RenderMode returns the Tr mode. Mode 3 is invisible text.
func (info *TextRenderInfo) RenderMode() int { return info.state.RenderingMode }

// MCID returns the marked content ID the text belongs to, or -1.
func (info *TextRenderInfo) MCID() int { return info.mcid }

// TextToUserMatrix returns the text matrix composed with the CTM.
func (info *TextRenderInfo) TextToUserMatrix() model.Matrix { return info.textToUser() }

// CharacterRenderInfos splits the event into one event per glyph, each
// positioned where that glyph was drawn.
func (info *TextRenderInfo) CharacterRenderInfos() []*TextRenderInfo {
	if info.synthetic {
		return info.splitSynthetic()
	}
	out := make([]*TextRenderInfo, 0, len(info.glyphs))
	tm := info.tm
	for _, g := range info.glyphs {
		ci := &TextRenderInfo{
			text:   g.Text,
			glyphs: []font.Glyph{g},
			state:  info.state,
			font:   info.font,
			tm:     tm,
			ctm:    info.ctm,
			mcid:   info.mcid,
		}
		ci.width = ci.glyphAdvance(g)
		out = append(out, ci)
		tm = model.Translate(ci.width, 0).Multiply(tm)
	}
	return out
}

// splitSynthetic divides the baseline evenly between the runes.
func (info *TextRenderInfo) splitSynthetic() []*TextRenderInfo {
	runes := []rune(info.text)
	if len(runes) == 0 {
		return nil
	}
	step := info.baseline.Direction().Multiply(1 / float64(len(runes)))
	out := make([]*TextRenderInfo, len(runes))
	start := info.baseline.Start
	for i, r := range runes {
		end := start.Add(step)
		out[i] = NewTextRenderInfo(string(r), model.LineSegment{Start: start, End: end}, info.spaceWidth)
		out[i].mcid = info.mcid
		start = end
	}
	return out
}
