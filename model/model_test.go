package model

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// ============================================================================
// Matrix Tests
// ============================================================================

func TestIdentity(t *testing.T) {
	m := Identity()
	if !m.IsIdentity() {
		t.Errorf("Identity() = %v, want identity", m)
	}
	if d := m.Determinant(); d != 1 {
		t.Errorf("Determinant() = %v, want 1", d)
	}
}

func TestNewMatrixLayout(t *testing.T) {
	m := NewMatrix(1, 2, 3, 4, 5, 6)
	want := Matrix{1, 2, 0, 3, 4, 0, 5, 6, 1}
	if !m.Equal(want) {
		t.Errorf("NewMatrix() = %v, want %v", m, want)
	}
	if m.A() != 1 || m.B() != 2 || m.C() != 3 || m.D() != 4 || m.E() != 5 || m.F() != 6 {
		t.Errorf("accessors returned wrong values for %v", m)
	}
}

func TestMatrixIdentityProperty(t *testing.T) {
	matrices := []Matrix{
		NewMatrix(2, 0, 0, 2, 10, 20),
		NewMatrix(0.5, 1.5, -2, 3, -7, 0.25),
		Translate(100, -50),
		{1, 2, 3, 4, 5, 6, 7, 8, 9},
	}
	id := Identity()
	for _, m := range matrices {
		if got := id.Multiply(m); !got.Equal(m) {
			t.Errorf("Identity.Multiply(%v) = %v", m, got)
		}
		if got := m.Multiply(id); !got.Equal(m) {
			t.Errorf("%v.Multiply(Identity) = %v", m, got)
		}
	}
}

func TestMatrixAssociativity(t *testing.T) {
	// Dyadic components keep every product exact.
	a := NewMatrix(2, 0.5, -1, 3, 4, -8)
	b := NewMatrix(0.25, 1, 2, -0.5, 16, 2)
	c := Matrix{1, 2, 0.5, -1, 0, 2, 3, 0.125, 1}

	left := a.Multiply(b).Multiply(c)
	right := a.Multiply(b.Multiply(c))
	if !left.Equal(right) {
		t.Errorf("(AB)C = %v, A(BC) = %v", left, right)
	}
}

func TestMatrixMultiplyOrder(t *testing.T) {
	// Scale then translate: the translation is not scaled.
	st := Scale(2, 2).Multiply(Translate(10, 0))
	p := Vector{X: 1, Y: 1}.Transform(st)
	if p.X != 12 || p.Y != 2 {
		t.Errorf("scale then translate: got %+v, want {12 2}", p)
	}

	// Translate then scale: the translation is scaled.
	ts := Translate(10, 0).Multiply(Scale(2, 2))
	p = Vector{X: 1, Y: 1}.Transform(ts)
	if p.X != 22 || p.Y != 2 {
		t.Errorf("translate then scale: got %+v, want {22 2}", p)
	}
}

func TestMatrixMultiplyFull(t *testing.T) {
	a := Matrix{1, 2, 3, 4, 5, 6, 7, 8, 9}
	b := Matrix{9, 8, 7, 6, 5, 4, 3, 2, 1}
	want := Matrix{30, 24, 18, 84, 69, 54, 138, 114, 90}
	if got := a.Multiply(b); !got.Equal(want) {
		t.Errorf("Multiply() = %v, want %v", got, want)
	}
}

func TestMatrixSubtract(t *testing.T) {
	a := NewMatrix(5, 4, 3, 2, 1, 0)
	got := a.Subtract(a)
	if !got.Equal(Matrix{}) {
		t.Errorf("A - A = %v, want zero", got)
	}
	got = NewMatrix(3, 3, 3, 3, 3, 3).Subtract(Identity())
	want := Matrix{2, 3, 0, 3, 2, 0, 3, 3, 0}
	if !got.Equal(want) {
		t.Errorf("Subtract() = %v, want %v", got, want)
	}
}

func TestMatrixDeterminant(t *testing.T) {
	tests := []struct {
		name string
		m    Matrix
		want float64
	}{
		{"identity", Identity(), 1},
		{"translation", Translate(123.5, -42), 1},
		{"scale", Scale(2, 3), 6},
		{"singular", Matrix{1, 2, 3, 4, 5, 6, 7, 8, 9}, 0},
		{"general", Matrix{2, 0, 1, 1, 3, 2, 1, 1, 2}, 6},
		{"rotation", Rotate(math.Pi / 3), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.m.Determinant(); !almostEqual(got, tt.want) {
				t.Errorf("Determinant() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMatrixEqual(t *testing.T) {
	a := NewMatrix(1, 0, 0, 1, 0.1, 0.2)
	b := NewMatrix(1, 0, 0, 1, 0.1, 0.2)
	if !a.Equal(b) {
		t.Error("identical matrices should be equal")
	}
	c := NewMatrix(1, 0, 0, 1, 0.1, math.Nextafter(0.2, 1))
	if a.Equal(c) {
		t.Error("matrices differing by one ulp should not be equal")
	}
	if (Matrix{}).Equal(Matrix{math.Copysign(0, -1)}) {
		t.Error("negative zero is not bit-equal to zero")
	}
}

func TestMatrixImmutable(t *testing.T) {
	a := Translate(1, 2)
	_ = a.Multiply(Scale(3, 3))
	_ = a.Subtract(Identity())
	if !a.Equal(Translate(1, 2)) {
		t.Errorf("operations modified receiver: %v", a)
	}
}

func TestRotate(t *testing.T) {
	p := Vector{X: 1, Y: 0}.Transform(Rotate(math.Pi / 2))
	if !almostEqual(p.X, 0) || !almostEqual(p.Y, 1) {
		t.Errorf("Rotate(pi/2) of (1,0) = %+v, want (0,1)", p)
	}
}

// ============================================================================
// Vector Tests
// ============================================================================

func TestVectorOps(t *testing.T) {
	a := Vector{X: 3, Y: 4}
	b := Vector{X: 1, Y: 2}

	if got := a.Sub(b); got != (Vector{2, 2}) {
		t.Errorf("Sub() = %+v", got)
	}
	if got := a.Add(b); got != (Vector{4, 6}) {
		t.Errorf("Add() = %+v", got)
	}
	if got := a.Cross(b); got != 2 {
		t.Errorf("Cross() = %v, want 2", got)
	}
	if got := a.Dot(b); got != 11 {
		t.Errorf("Dot() = %v, want 11", got)
	}
	if got := a.Length(); got != 5 {
		t.Errorf("Length() = %v, want 5", got)
	}
	if got := a.LengthSquared(); got != 25 {
		t.Errorf("LengthSquared() = %v, want 25", got)
	}
	if got := a.Normalize(); !almostEqual(got.Length(), 1) {
		t.Errorf("Normalize() length = %v, want 1", got.Length())
	}
	if got := (Vector{}).Normalize(); got != (Vector{}) {
		t.Errorf("Normalize() of zero = %+v", got)
	}
	if got := a.Distance(b); !almostEqual(got, math.Sqrt(8)) {
		t.Errorf("Distance() = %v", got)
	}
}

func TestLineSegment(t *testing.T) {
	s := LineSegment{Start: Vector{0, 0}, End: Vector{10, 0}}
	moved := s.Transform(NewMatrix(2, 0, 0, 2, 5, 7))
	if moved.Start != (Vector{5, 7}) || moved.End != (Vector{25, 7}) {
		t.Errorf("Transform() = %+v", moved)
	}
	if moved.Length() != 20 {
		t.Errorf("Length() = %v, want 20", moved.Length())
	}
	if d := moved.Direction(); d != (Vector{20, 0}) {
		t.Errorf("Direction() = %+v", d)
	}
	bb := LineSegment{Start: Vector{4, 9}, End: Vector{1, 3}}.BoundingBox()
	if bb != (BBox{1, 3, 3, 6}) {
		t.Errorf("BoundingBox() = %+v", bb)
	}
}

// ============================================================================
// BBox Tests
// ============================================================================

func TestNewBBoxFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		p1, p2 Vector
		want   BBox
	}{
		{"normal", Vector{10, 20}, Vector{50, 70}, BBox{10, 20, 40, 50}},
		{"reversed", Vector{50, 70}, Vector{10, 20}, BBox{10, 20, 40, 50}},
		{"same point", Vector{10, 10}, Vector{10, 10}, BBox{10, 10, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewBBoxFromPoints(tt.p1, tt.p2); got != tt.want {
				t.Errorf("NewBBoxFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBBoxOf(t *testing.T) {
	got := BBoxOf(Vector{3, 1}, Vector{-2, 5}, Vector{0, 0})
	if got != (BBox{-2, 0, 5, 5}) {
		t.Errorf("BBoxOf() = %+v", got)
	}
	if BBoxOf() != (BBox{}) {
		t.Error("BBoxOf() of nothing should be zero")
	}
}

func TestBBoxGeometry(t *testing.T) {
	b := NewBBox(0, 0, 100, 100)

	if !b.Contains(Vector{50, 50}) || !b.Contains(Vector{100, 0}) {
		t.Error("Contains() should include interior and edges")
	}
	if b.Contains(Vector{101, 50}) {
		t.Error("Contains() should exclude exterior points")
	}

	other := NewBBox(50, 50, 100, 100)
	if !b.Intersects(other) {
		t.Error("Intersects() = false, want true")
	}
	if got := b.Intersection(other); got != (BBox{50, 50, 50, 50}) {
		t.Errorf("Intersection() = %+v", got)
	}
	if got := b.Union(other); got != (BBox{0, 0, 150, 150}) {
		t.Errorf("Union() = %+v", got)
	}
	if got := b.Intersection(NewBBox(200, 200, 1, 1)); got != (BBox{}) {
		t.Errorf("Intersection() of disjoint boxes = %+v", got)
	}
	if got := b.Expand(5); got != (BBox{-5, -5, 110, 110}) {
		t.Errorf("Expand(5) = %+v", got)
	}
	if b.Area() != 10000 {
		t.Errorf("Area() = %v", b.Area())
	}
	if c := b.Center(); c != (Vector{50, 50}) {
		t.Errorf("Center() = %+v", c)
	}
	if !NewBBox(1, 1, 0, 5).IsEmpty() || b.IsEmpty() {
		t.Error("IsEmpty() returned wrong result")
	}
}
