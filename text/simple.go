package text

import (
	"strings"

	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// SimpleTextExtractionStrategy writes text in the order it is drawn. A
// newline is inserted when a string does not continue the line of the
// previous one, and a space when it starts more than half a space width
// after the previous string ended.
//
// Text drawn out of reading order comes out out of order; use
// LocationTextExtractionStrategy for such documents.
type SimpleTextExtractionStrategy struct {
	emitter ChunkEmitter
	result  strings.Builder

	lastStart, lastEnd model.Vector
	seen               bool
}

// NewSimpleTextExtractionStrategy returns a strategy that writes chunks
// verbatim.
func NewSimpleTextExtractionStrategy() *SimpleTextExtractionStrategy {
	return NewSimpleTextExtractionStrategyWithEmitter(PlainEmitter{})
}

// NewSimpleTextExtractionStrategyWithEmitter returns a strategy that
// writes each chunk through e.
func NewSimpleTextExtractionStrategyWithEmitter(e ChunkEmitter) *SimpleTextExtractionStrategy {
	if e == nil {
		e = PlainEmitter{}
	}
	return &SimpleTextExtractionStrategy{emitter: e}
}

// BeginTextBlock implements processor.RenderListener.
func (s *SimpleTextExtractionStrategy) BeginTextBlock() {}

// EndTextBlock implements processor.RenderListener.
func (s *SimpleTextExtractionStrategy) EndTextBlock() {}

// RenderImage implements processor.RenderListener. Images are ignored.
func (s *SimpleTextExtractionStrategy) RenderImage(*processor.ImageRenderInfo) {}

// RenderText implements processor.RenderListener.
func (s *SimpleTextExtractionStrategy) RenderText(info *processor.TextRenderInfo) {
	text := info.Text()
	baseline := info.Baseline()
	start, end := baseline.Start, baseline.End

	if s.seen {
		if dist := lineDistance(s.lastStart, s.lastEnd, start); dist > 1.0 {
			s.emitter.EmitChunk(&s.result, "\n")
		} else if s.needsSpace(text) {
			if s.lastEnd.Sub(start).Length() > info.SingleSpaceWidth()/2 {
				s.emitter.EmitChunk(&s.result, " ")
			}
		}
	}

	s.emitter.EmitChunk(&s.result, text)
	s.lastStart, s.lastEnd = start, end
	s.seen = true
}

// needsSpace reports whether a space could go between the result and text:
// neither side may be empty or already end or start with a space.
func (s *SimpleTextExtractionStrategy) needsSpace(text string) bool {
	if s.result.Len() == 0 || text == "" {
		return false
	}
	r := s.result.String()
	return r[len(r)-1] != ' ' && text[0] != ' '
}

// ResultantText implements Strategy.
func (s *SimpleTextExtractionStrategy) ResultantText() string {
	return s.result.String()
}

// lineDistance returns the squared perpendicular distance from p to the
// line through a and b. A degenerate line gives 0.
func lineDistance(a, b, p model.Vector) float64 {
	dir := b.Sub(a)
	lenSq := dir.LengthSquared()
	if lenSq == 0 {
		return 0
	}
	cross := dir.Cross(a.Sub(p))
	return cross * cross / lenSq
}
