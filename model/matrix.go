package model

import (
	"fmt"
	"math"
)

// Component indices of a Matrix.
const (
	I11 = iota
	I12
	I13
	I21
	I22
	I23
	I31
	I32
	I33
)

// Matrix is a 3x3 affine transform in row-major order. The third column is
// [0 0 1] for every matrix built from PDF operands.
type Matrix [9]float64

// Identity returns the identity matrix.
func Identity() Matrix {
	return Matrix{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// NewMatrix builds a matrix from the six values of a PDF transform
// [a b c d e f].
func NewMatrix(a, b, c, d, e, f float64) Matrix {
	return Matrix{
		a, b, 0,
		c, d, 0,
		e, f, 1,
	}
}

// Translate returns a translation by (tx, ty).
func Translate(tx, ty float64) Matrix {
	return NewMatrix(1, 0, 0, 1, tx, ty)
}

// Scale returns a scaling by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return NewMatrix(sx, 0, 0, sy, 0, 0)
}

// Rotate returns a counter-clockwise rotation (angle in radians).
func Rotate(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return NewMatrix(cos, sin, -sin, cos, 0, 0)
}

// Multiply returns m * by. With row vectors this applies m first, then by.
func (m Matrix) Multiply(by Matrix) Matrix {
	var r Matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			r[row*3+col] = m[row*3]*by[col] +
				m[row*3+1]*by[3+col] +
				m[row*3+2]*by[6+col]
		}
	}
	return r
}

// Subtract returns the component-wise difference m - o.
func (m Matrix) Subtract(o Matrix) Matrix {
	var r Matrix
	for i := range m {
		r[i] = m[i] - o[i]
	}
	return r
}

// Determinant returns the determinant by cofactor expansion along the first
// row.
func (m Matrix) Determinant() float64 {
	return m[I11]*(m[I22]*m[I33]-m[I23]*m[I32]) -
		m[I12]*(m[I21]*m[I33]-m[I23]*m[I31]) +
		m[I13]*(m[I21]*m[I32]-m[I22]*m[I31])
}

// Equal reports whether all nine components are bit-identical.
func (m Matrix) Equal(o Matrix) bool {
	for i := range m {
		if math.Float64bits(m[i]) != math.Float64bits(o[i]) {
			return false
		}
	}
	return true
}

// IsIdentity reports whether m equals the identity matrix.
func (m Matrix) IsIdentity() bool {
	return m.Equal(Identity())
}

// A returns the horizontal scaling component.
func (m Matrix) A() float64 { return m[I11] }

// B returns the first shear component.
func (m Matrix) B() float64 { return m[I12] }

// C returns the second shear component.
func (m Matrix) C() float64 { return m[I21] }

// D returns the vertical scaling component.
func (m Matrix) D() float64 { return m[I22] }

// E returns the horizontal translation.
func (m Matrix) E() float64 { return m[I31] }

// F returns the vertical translation.
func (m Matrix) F() float64 { return m[I32] }

// String formats the matrix as three rows.
func (m Matrix) String() string {
	return fmt.Sprintf("%g\t%g\t%g\n%g\t%g\t%g\n%g\t%g\t%g",
		m[I11], m[I12], m[I13],
		m[I21], m[I22], m[I23],
		m[I31], m[I32], m[I33])
}
