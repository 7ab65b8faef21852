package text

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// TextChunk is a string with the position it was drawn at.
type TextChunk struct {
	Text           string
	Start, End     model.Vector
	CharSpaceWidth float64
	MCID           int

	orientation       int // angle of the baseline in milliradians
	distPerpendicular int // signed distance of the line from the origin
	parallelStart     float64
	parallelEnd       float64
}

func newTextChunk(text string, start, end model.Vector, charSpace float64, mcid int) TextChunk {
	dir := end.Sub(start).Normalize()
	if dir.LengthSquared() == 0 {
		dir = model.Vector{X: 1}
	}
	return TextChunk{
		Text:              text,
		Start:             start,
		End:               end,
		CharSpaceWidth:    charSpace,
		MCID:              mcid,
		orientation:       int(math.Atan2(dir.Y, dir.X) * 1000),
		distPerpendicular: int(math.Round(start.Cross(dir))),
		parallelStart:     dir.Dot(start),
		parallelEnd:       dir.Dot(end),
	}
}

// sameLine reports whether two chunks sit on the same line of text.
func (c TextChunk) sameLine(o TextChunk) bool {
	return c.orientation == o.orientation && c.distPerpendicular == o.distPerpendicular
}

// gapBefore returns the distance along the line from the end of prev to
// the start of c. Overlapping chunks give a negative gap.
func (c TextChunk) gapBefore(prev TextChunk) float64 {
	return c.parallelStart - prev.parallelEnd
}

func compareChunks(a, b TextChunk) int {
	if c := cmp.Compare(a.orientation, b.orientation); c != 0 {
		return c
	}
	if c := cmp.Compare(a.distPerpendicular, b.distPerpendicular); c != 0 {
		return c
	}
	return cmp.Compare(a.parallelStart, b.parallelStart)
}

// ChunkFilter reports whether a chunk should be part of the result.
type ChunkFilter func(TextChunk) bool

// LocationTextExtractionStrategy collects every string with its position
// and orders them by line before joining, so text drawn out of reading
// order still comes out line by line.
type LocationTextExtractionStrategy struct {
	chunks []TextChunk
}

// NewLocationTextExtractionStrategy returns an empty strategy.
func NewLocationTextExtractionStrategy() *LocationTextExtractionStrategy {
	return &LocationTextExtractionStrategy{}
}

// BeginTextBlock implements processor.RenderListener.
func (s *LocationTextExtractionStrategy) BeginTextBlock() {}

// EndTextBlock implements processor.RenderListener.
func (s *LocationTextExtractionStrategy) EndTextBlock() {}

// RenderImage implements processor.RenderListener.
func (s *LocationTextExtractionStrategy) RenderImage(*processor.ImageRenderInfo) {}

// RenderText implements processor.RenderListener.
func (s *LocationTextExtractionStrategy) RenderText(info *processor.TextRenderInfo) {
	baseline := info.Baseline()
	s.chunks = append(s.chunks, newTextChunk(info.Text(), baseline.Start, baseline.End, info.SingleSpaceWidth(), info.MCID()))
}

// Chunks returns the collected chunks in drawing order.
func (s *LocationTextExtractionStrategy) Chunks() []TextChunk {
	return slices.Clone(s.chunks)
}

// ResultantText implements Strategy.
func (s *LocationTextExtractionStrategy) ResultantText() string {
	return s.ResultantTextFiltered(nil)
}

// ResultantTextFiltered joins only the chunks accepted by filter. A nil
// filter accepts every chunk.
func (s *LocationTextExtractionStrategy) ResultantTextFiltered(filter ChunkFilter) string {
	chunks := make([]TextChunk, 0, len(s.chunks))
	for _, c := range s.chunks {
		if filter == nil || filter(c) {
			chunks = append(chunks, c)
		}
	}
	slices.SortStableFunc(chunks, compareChunks)

	var b strings.Builder
	for i, line := range splitLines(chunks) {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeLine(&b, line)
	}
	return b.String()
}

// splitLines cuts sorted chunks into runs on the same line.
func splitLines(chunks []TextChunk) [][]TextChunk {
	var lines [][]TextChunk
	start := 0
	for i := 1; i <= len(chunks); i++ {
		if i == len(chunks) || !chunks[i].sameLine(chunks[i-1]) {
			lines = append(lines, chunks[start:i])
			start = i
		}
	}
	return lines
}

// writeLine joins one line of chunks, adding a space at word boundaries.
// Right-to-left lines are written starting from the rightmost chunk.
func writeLine(b *strings.Builder, line []TextChunk) {
	if len(line) == 0 {
		return
	}
	seps := make([]string, len(line)-1)
	texts := make([]string, len(line))
	texts[0] = line[0].Text
	for i := 1; i < len(line); i++ {
		texts[i] = line[i].Text
		if isWordBoundary(line[i-1], line[i]) {
			seps[i-1] = " "
		}
	}

	if lineDirection(texts) == RTL {
		for i := len(line) - 1; i >= 0; i-- {
			b.WriteString(texts[i])
			if i > 0 {
				b.WriteString(seps[i-1])
			}
		}
		return
	}
	for i, t := range texts {
		if i > 0 {
			b.WriteString(seps[i-1])
		}
		b.WriteString(t)
	}
}

func isWordBoundary(prev, next TextChunk) bool {
	if strings.HasSuffix(prev.Text, " ") || strings.HasPrefix(next.Text, " ") {
		return false
	}
	space := prev.CharSpaceWidth
	gap := next.gapBefore(prev)
	return gap < -space || gap > space/2
}
