package model

import "math"

// Vector is a 2-D point or offset.
type Vector struct {
	X, Y float64
}

// Add returns v + o.
func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

// Multiply scales v by s.
func (v Vector) Multiply(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Cross returns the z component of the 3-D cross product of v and o.
func (v Vector) Cross(o Vector) float64 {
	return v.X*o.Y - v.Y*o.X
}

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Length returns the Euclidean length of v.
func (v Vector) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// LengthSquared returns the squared length of v.
func (v Vector) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Distance returns the Euclidean distance between v and o.
func (v Vector) Distance(o Vector) float64 {
	return v.Sub(o).Length()
}

// Normalize returns v scaled to unit length. The zero vector is returned
// unchanged.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return v
	}
	return Vector{X: v.X / l, Y: v.Y / l}
}

// Transform returns [x y 1] * m.
func (v Vector) Transform(m Matrix) Vector {
	return Vector{
		X: v.X*m[I11] + v.Y*m[I21] + m[I31],
		Y: v.X*m[I12] + v.Y*m[I22] + m[I32],
	}
}

// LineSegment is a directed segment between two points.
type LineSegment struct {
	Start, End Vector
}

// Length returns the distance between the end points.
func (s LineSegment) Length() float64 {
	return s.End.Sub(s.Start).Length()
}

// Direction returns End - Start.
func (s LineSegment) Direction() Vector {
	return s.End.Sub(s.Start)
}

// Transform returns the segment with both end points transformed by m.
func (s LineSegment) Transform(m Matrix) LineSegment {
	return LineSegment{Start: s.Start.Transform(m), End: s.End.Transform(m)}
}

// BoundingBox returns the smallest box containing the segment.
func (s LineSegment) BoundingBox() BBox {
	return NewBBoxFromPoints(s.Start, s.End)
}
