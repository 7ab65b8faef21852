// Package graphicsstate holds the mutable state a content-stream processor
// tracks while it runs: the graphics state stack, the text object matrices
// and the path under construction.
//
// GraphicsState is saved and restored by the q and Q operators:
//
//	gs := graphicsstate.New()
//	gs.Save()
//	gs.Concat(model.Scale(2, 2))
//	_ = gs.Restore()
//
// TextObject carries the text matrix and text line matrix, which live
// between BT and ET and are not part of the saved state. Path records the
// segments built by m, l, c, v, y, h and re in user space, and can classify
// itself into rectangles and straight line segments.
package graphicsstate
