package graphicsstate

import (
	"math"

	"github.com/tsawler/pdftext/model"
)

// SegmentType is the kind of a path segment.
type SegmentType int

const (
	// MoveTo starts a new subpath
	MoveTo SegmentType = iota
	// LineTo draws a straight line
	LineTo
	// CurveTo draws a cubic Bézier curve
	CurveTo
	// ClosePath closes the current subpath
	ClosePath
)

// Segment is one path construction step. MoveTo and LineTo carry one point,
// CurveTo carries two control points and the end point, ClosePath none.
type Segment struct {
	Type   SegmentType
	Points []model.Vector
}

// Path is a path under construction, in user space coordinates as written
// in the content stream.
type Path struct {
	Segments []Segment

	current  model.Vector
	start    model.Vector
	hasPoint bool
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts a subpath at (x, y) (m).
func (p *Path) MoveTo(x, y float64) {
	pt := model.Vector{X: x, Y: y}
	p.Segments = append(p.Segments, Segment{Type: MoveTo, Points: []model.Vector{pt}})
	p.current = pt
	p.start = pt
	p.hasPoint = true
}

// LineTo appends a line to (x, y) (l). Without a current point it behaves
// as MoveTo.
func (p *Path) LineTo(x, y float64) {
	if !p.hasPoint {
		p.MoveTo(x, y)
		return
	}
	pt := model.Vector{X: x, Y: y}
	p.Segments = append(p.Segments, Segment{Type: LineTo, Points: []model.Vector{pt}})
	p.current = pt
}

// CurveTo appends a cubic Bézier curve (c).
func (p *Path) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	if !p.hasPoint {
		p.MoveTo(x1, y1)
	}
	p.Segments = append(p.Segments, Segment{
		Type:   CurveTo,
		Points: []model.Vector{{X: x1, Y: y1}, {X: x2, Y: y2}, {X: x3, Y: y3}},
	})
	p.current = model.Vector{X: x3, Y: y3}
}

// CurveToV appends a curve whose first control point is the current point (v).
func (p *Path) CurveToV(x2, y2, x3, y3 float64) {
	if !p.hasPoint {
		return
	}
	p.CurveTo(p.current.X, p.current.Y, x2, y2, x3, y3)
}

// CurveToY appends a curve whose second control point is the end point (y).
func (p *Path) CurveToY(x1, y1, x3, y3 float64) {
	if !p.hasPoint {
		return
	}
	p.CurveTo(x1, y1, x3, y3, x3, y3)
}

// ClosePath closes the current subpath (h).
func (p *Path) ClosePath() {
	if !p.hasPoint {
		return
	}
	p.Segments = append(p.Segments, Segment{Type: ClosePath})
	p.current = p.start
}

// Rectangle appends a closed rectangular subpath (re).
func (p *Path) Rectangle(x, y, width, height float64) {
	p.MoveTo(x, y)
	p.LineTo(x+width, y)
	p.LineTo(x+width, y+height)
	p.LineTo(x, y+height)
	p.ClosePath()
}

// Reset empties the path.
func (p *Path) Reset() {
	p.Segments = nil
	p.hasPoint = false
}

// IsEmpty reports whether the path has no segments.
func (p *Path) IsEmpty() bool {
	return len(p.Segments) == 0
}

// Clone returns a copy that does not share segments with p.
func (p *Path) Clone() *Path {
	c := *p
	c.Segments = make([]Segment, len(p.Segments))
	for i, s := range p.Segments {
		c.Segments[i] = Segment{Type: s.Type, Points: append([]model.Vector(nil), s.Points...)}
	}
	return &c
}

// LineSegments returns the straight edges of the path transformed by m.
// Curves are approximated by the chord from start to end point.
func (p *Path) LineSegments(m model.Matrix) []model.LineSegment {
	var out []model.LineSegment
	var cur, start model.Vector
	for _, seg := range p.Segments {
		switch seg.Type {
		case MoveTo:
			cur = seg.Points[0]
			start = cur
		case LineTo:
			out = append(out, model.LineSegment{Start: cur, End: seg.Points[0]}.Transform(m))
			cur = seg.Points[0]
		case CurveTo:
			out = append(out, model.LineSegment{Start: cur, End: seg.Points[2]}.Transform(m))
			cur = seg.Points[2]
		case ClosePath:
			if !pointsEqual(cur, start, 0.1) {
				out = append(out, model.LineSegment{Start: cur, End: start}.Transform(m))
			}
			cur = start
		}
	}
	return out
}

// Rect reports whether the path is a single four-cornered subpath with
// right angles, and if so returns its bounding box after transforming by m.
func (p *Path) Rect(m model.Matrix) (model.BBox, bool) {
	segs := p.Segments
	if len(segs) < 4 || segs[0].Type != MoveTo {
		return model.BBox{}, false
	}
	corners := []model.Vector{segs[0].Points[0]}
	for _, seg := range segs[1:] {
		switch seg.Type {
		case LineTo:
			corners = append(corners, seg.Points[0])
		case ClosePath:
		default:
			return model.BBox{}, false
		}
	}
	if len(corners) == 5 {
		if !pointsEqual(corners[0], corners[4], 0.1) {
			return model.BBox{}, false
		}
		corners = corners[:4]
	}
	if len(corners) != 4 || !isRectangle(corners) {
		return model.BBox{}, false
	}
	for i := range corners {
		corners[i] = corners[i].Transform(m)
	}
	return model.BBoxOf(corners...), true
}

// IsHorizontal reports whether s rises by less than tolerance.
func IsHorizontal(s model.LineSegment, tolerance float64) bool {
	return math.Abs(s.End.Y-s.Start.Y) < tolerance
}

// IsVertical reports whether s runs sideways by less than tolerance.
func IsVertical(s model.LineSegment, tolerance float64) bool {
	return math.Abs(s.End.X-s.Start.X) < tolerance
}

func pointsEqual(a, b model.Vector, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

// isRectangle checks for four near-right angles, allowing about six degrees.
func isRectangle(corners []model.Vector) bool {
	for i := 0; i < 4; i++ {
		v1 := corners[(i+1)%4].Sub(corners[i])
		v2 := corners[(i+2)%4].Sub(corners[(i+1)%4])
		l1, l2 := v1.Length(), v2.Length()
		if l1 < 1e-9 || l2 < 1e-9 {
			return false
		}
		if math.Abs(v1.Dot(v2)/(l1*l2)) > 0.1 {
			return false
		}
	}
	return true
}
