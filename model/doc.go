// Package model provides the geometry used while interpreting content streams.
//
// # Matrix
//
// [Matrix] is an immutable 3x3 affine transform stored in row-major order.
// Points are row vectors, so a point p is transformed as p * M and applying
// A and then B is written A.Multiply(B):
//
//	ctm := model.NewMatrix(1, 0, 0, 1, 72, 72)
//	trm := textMatrix.Multiply(ctm)
//	start := model.Vector{X: 0, Y: 0}.Transform(trm)
//
// Every operation returns a new value; callers replace the matrix they hold.
//
// # Vectors and segments
//
//   - [Vector] - a 2-D point or offset with cross and dot products
//   - [LineSegment] - a start/end pair, used for glyph baselines
//   - [BBox] - an axis-aligned rectangle with intersection and union
package model
