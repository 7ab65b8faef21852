package text

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// TextFragment is a piece of text with its position on the page. X and Y
// are the start of the baseline in user space.
type TextFragment struct {
	Text       string
	X          float64
	Y          float64
	Width      float64
	Height     float64
	FontName   string
	FontSize   float64 // size after the text and graphics transforms
	SpaceWidth float64
	Direction  Direction
	MCID       int
}

// Bounds returns the box from the descent to the ascent of the fragment,
// approximating the descent as a fifth of the height.
func (f TextFragment) Bounds() model.BBox {
	return model.NewBBox(f.X, f.Y-f.Height*0.2, f.Width, f.Height)
}

// Line is a row of fragments in reading order.
type Line struct {
	Fragments []TextFragment
	Direction Direction
}

// Text joins the fragments of the line, inserting a space where the gap
// between two fragments is at least half a space wide.
func (l Line) Text() string {
	var b strings.Builder
	for i, f := range l.Fragments {
		if i > 0 && shouldInsertSpace(l.Fragments[i-1], f, l.Direction) {
			b.WriteByte(' ')
		}
		b.WriteString(f.Text)
	}
	return b.String()
}

// FragmentCollector records every string as a TextFragment and can group
// them into lines.
type FragmentCollector struct {
	fragments []TextFragment
}

// NewFragmentCollector returns an empty collector.
func NewFragmentCollector() *FragmentCollector {
	return &FragmentCollector{}
}

// BeginTextBlock implements processor.RenderListener.
func (c *FragmentCollector) BeginTextBlock() {}

// EndTextBlock implements processor.RenderListener.
func (c *FragmentCollector) EndTextBlock() {}

// RenderImage implements processor.RenderListener.
func (c *FragmentCollector) RenderImage(*processor.ImageRenderInfo) {}

// RenderText implements processor.RenderListener.
func (c *FragmentCollector) RenderText(info *processor.TextRenderInfo) {
	if info.Text() == "" {
		return
	}
	baseline := info.Baseline()
	asc, desc := info.AscentLine(), info.DescentLine()

	frag := TextFragment{
		Text:       info.Text(),
		X:          baseline.Start.X,
		Y:          baseline.Start.Y,
		Width:      baseline.Length(),
		Height:     asc.Start.Distance(desc.Start),
		SpaceWidth: info.SingleSpaceWidth(),
		Direction:  DetectDirection(info.Text()),
		MCID:       info.MCID(),
	}
	if f := info.Font(); f != nil {
		frag.FontName = f.Name()
	}
	// the Tf size scaled by the vertical extent of the text-to-user transform
	unit := model.LineSegment{End: model.Vector{Y: 1}}.Transform(info.TextToUserMatrix())
	frag.FontSize = info.FontSize() * unit.Length()
	if frag.Height == 0 {
		frag.Height = frag.FontSize
	}
	c.fragments = append(c.fragments, frag)
}

// Fragments returns the fragments in drawing order.
func (c *FragmentCollector) Fragments() []TextFragment {
	return slices.Clone(c.fragments)
}

// Lines groups consecutive fragments whose baselines are within half a
// line height of each other, and orders each line for reading.
func (c *FragmentCollector) Lines() []Line {
	if len(c.fragments) == 0 {
		return nil
	}
	var lines []Line
	current := []TextFragment{c.fragments[0]}
	for _, f := range c.fragments[1:] {
		prev := current[len(current)-1]
		if math.Abs(f.Y-prev.Y) <= prev.Height*0.5 {
			current = append(current, f)
			continue
		}
		lines = append(lines, newLine(current))
		current = []TextFragment{f}
	}
	return append(lines, newLine(current))
}

func newLine(frags []TextFragment) Line {
	texts := make([]string, len(frags))
	for i, f := range frags {
		texts[i] = f.Text
	}
	dir := lineDirection(texts)
	ordered := slices.Clone(frags)
	slices.SortStableFunc(ordered, func(a, b TextFragment) int {
		if dir == RTL {
			return cmp.Compare(b.X, a.X)
		}
		return cmp.Compare(a.X, b.X)
	})
	return Line{Fragments: ordered, Direction: dir}
}

// ResultantText implements Strategy. Lines are separated by a newline, or
// by a blank line when the vertical gap exceeds one and a half line
// heights.
func (c *FragmentCollector) ResultantText() string {
	lines := c.Lines()
	var b strings.Builder
	for i, line := range lines {
		if i > 0 {
			prev := lines[i-1].Fragments[0]
			b.WriteByte('\n')
			if math.Abs(line.Fragments[0].Y-prev.Y) > prev.Height*1.5 {
				b.WriteByte('\n')
			}
		}
		b.WriteString(line.Text())
	}
	return b.String()
}

// horizontalGap returns the gap between two neighbouring fragments in
// reading order.
func horizontalGap(a, b TextFragment, dir Direction) float64 {
	if dir == RTL {
		return a.X - (b.X + b.Width)
	}
	return b.X - (a.X + a.Width)
}

func shouldInsertSpace(a, b TextFragment, dir Direction) bool {
	if strings.HasSuffix(a.Text, " ") || strings.HasPrefix(b.Text, " ") {
		return false
	}
	gap := horizontalGap(a, b, dir)
	if gap < a.FontSize*0.05 {
		return false
	}
	space := a.SpaceWidth
	if space <= 0 {
		space = a.FontSize * 0.25
	}
	return gap >= space*0.5
}
