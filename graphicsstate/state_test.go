package graphicsstate

import (
	"errors"
	"testing"

	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/model"
)

// TestNew tests the initial state.
func TestNew(t *testing.T) {
	gs := New()
	if !gs.CTM.IsIdentity() {
		t.Errorf("expected identity CTM, got %v", gs.CTM)
	}
	if gs.LineWidth != 1 {
		t.Errorf("expected line width 1, got %v", gs.LineWidth)
	}
	if gs.HorizontalScale() != 1 {
		t.Errorf("expected horizontal scale 1, got %v", gs.HorizontalScale())
	}
	if gs.Text.Font != nil {
		t.Error("expected no font selected")
	}
}

// TestSaveRestore tests that q/Q restore every saved field.
func TestSaveRestore(t *testing.T) {
	gs := New()
	gs.SetFont("F1", font.Default(), 12)
	gs.Save()

	gs.Concat(model.Scale(2, 2))
	gs.SetFont("F2", nil, 24)
	gs.Text.CharSpacing = 3
	gs.LineWidth = 5
	gs.SetFillRGB(1, 0, 0)
	if gs.Depth() != 1 {
		t.Errorf("expected depth 1, got %d", gs.Depth())
	}

	if err := gs.Restore(); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if !gs.CTM.IsIdentity() {
		t.Errorf("expected identity CTM after restore, got %v", gs.CTM)
	}
	if gs.Text.FontName != "F1" || gs.Text.FontSize != 12 || gs.Text.Font == nil {
		t.Errorf("expected F1 12pt after restore, got %s %vpt", gs.Text.FontName, gs.Text.FontSize)
	}
	if gs.Text.CharSpacing != 0 || gs.LineWidth != 1 || gs.FillColor != [3]float64{} {
		t.Error("expected spacing, width and colour to be restored")
	}
}

// TestRestoreUnderflow tests Q with an empty stack.
func TestRestoreUnderflow(t *testing.T) {
	gs := New()
	gs.Concat(model.Translate(5, 5))
	if err := gs.Restore(); !errors.Is(err, ErrStackUnderflow) {
		t.Errorf("expected ErrStackUnderflow, got %v", err)
	}
	if gs.CTM.E() != 5 {
		t.Error("expected state to be unchanged after underflow")
	}
}

// TestRestoreTo tests popping down to a saved depth.
func TestRestoreTo(t *testing.T) {
	gs := New()
	gs.Save()
	gs.Concat(model.Translate(5, 5))
	gs.Save()
	gs.Concat(model.Translate(1, 1))
	gs.Save()

	gs.RestoreTo(1)
	if gs.Depth() != 1 || gs.CTM.E() != 5 {
		t.Errorf("expected depth 1 at x=5, got depth %d at x=%v", gs.Depth(), gs.CTM.E())
	}
	gs.RestoreTo(3)
	if gs.Depth() != 1 {
		t.Errorf("expected deeper target to be a no-op, got depth %d", gs.Depth())
	}
}

// TestConcatOrder tests that cm premultiplies the CTM.
func TestConcatOrder(t *testing.T) {
	gs := New()
	gs.Concat(model.Translate(10, 0))
	gs.Concat(model.Scale(2, 2))

	// A later cm applies first: (1,1) scales to (2,2) then moves to (12,2).
	p := model.Vector{X: 1, Y: 1}.Transform(gs.CTM)
	if p.X != 12 || p.Y != 2 {
		t.Errorf("expected (12,2), got (%v,%v)", p.X, p.Y)
	}
}

// TestColours tests the colour operators.
func TestColours(t *testing.T) {
	gs := New()
	gs.SetStrokeGray(0.5)
	if gs.StrokeColor != [3]float64{0.5, 0.5, 0.5} {
		t.Errorf("unexpected gray %v", gs.StrokeColor)
	}
	gs.SetFillCMYK(1, 0, 0, 0)
	if gs.FillColor != [3]float64{0, 1, 1} {
		t.Errorf("expected cyan, got %v", gs.FillColor)
	}
	gs.SetStrokeCMYK(0, 0, 0, 1)
	if gs.StrokeColor != [3]float64{0, 0, 0} {
		t.Errorf("expected black, got %v", gs.StrokeColor)
	}
}

// TestTextObject tests the text positioning operators.
func TestTextObject(t *testing.T) {
	to := NewTextObject()
	to.MoveLine(100, 700)
	if to.Matrix.E() != 100 || to.Matrix.F() != 700 {
		t.Errorf("expected (100,700), got (%v,%v)", to.Matrix.E(), to.Matrix.F())
	}

	to.Advance(50)
	if to.Matrix.E() != 150 || to.LineMatrix.E() != 100 {
		t.Errorf("expected advance to move only the text matrix, got %v/%v", to.Matrix.E(), to.LineMatrix.E())
	}

	to.NextLine(14)
	if to.Matrix.E() != 100 || to.Matrix.F() != 686 {
		t.Errorf("expected next line at (100,686), got (%v,%v)", to.Matrix.E(), to.Matrix.F())
	}

	to.SetMatrices(model.NewMatrix(2, 0, 0, 2, 10, 20))
	to.Advance(5)
	if to.Matrix.E() != 20 {
		t.Errorf("expected advance scaled by the text matrix to reach 20, got %v", to.Matrix.E())
	}
	if to.LineMatrix.E() != 10 {
		t.Errorf("expected line matrix at 10, got %v", to.LineMatrix.E())
	}

	to.MoveLine(1, 1)
	if to.Matrix.E() != 12 || to.Matrix.F() != 22 {
		t.Errorf("expected Td in scaled text space to reach (12,22), got (%v,%v)", to.Matrix.E(), to.Matrix.F())
	}

	to.Begin()
	if !to.Matrix.IsIdentity() || !to.LineMatrix.IsIdentity() {
		t.Error("expected BT to reset both matrices")
	}
}

// TestTextToUser tests composing the text matrix with the CTM.
func TestTextToUser(t *testing.T) {
	to := NewTextObject()
	to.MoveLine(10, 10)
	m := to.TextToUser(model.Scale(2, 2))
	p := model.Vector{}.Transform(m)
	if p.X != 20 || p.Y != 20 {
		t.Errorf("expected (20,20), got (%v,%v)", p.X, p.Y)
	}
}
