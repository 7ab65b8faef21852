package text

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/tsawler/pdftext/model"
)

// TestFragmentCollector tests the fragments recorded for Helvetica text.
func TestFragmentCollector(t *testing.T) {
	c := NewFragmentCollector()
	process(t, c, "BT /F1 12 Tf 100 700 Td (Hello) Tj 40 0 Td (World) Tj () Tj ET", nil)

	want := []TextFragment{
		{Text: "Hello", X: 100, Y: 700, Width: 27.336, Height: 11.1, FontName: "Helvetica", FontSize: 12, SpaceWidth: 3.336, Direction: LTR, MCID: -1},
		{Text: "World", X: 140, Y: 700, Width: 31.332, Height: 11.1, FontName: "Helvetica", FontSize: 12, SpaceWidth: 3.336, Direction: LTR, MCID: -1},
	}
	if diff := cmp.Diff(want, c.Fragments(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("fragments mismatch (-want +got):\n%s", diff)
	}
}

// TestFragmentCollectorScaledFont tests that the font size includes the
// CTM scale.
func TestFragmentCollectorScaledFont(t *testing.T) {
	c := NewFragmentCollector()
	process(t, c, "2 0 0 2 0 0 cm BT /F1 12 Tf 10 10 Td (A) Tj ET", nil)

	frags := c.Fragments()
	if len(frags) != 1 {
		t.Fatalf("expected 1 fragment, got %d", len(frags))
	}
	if !approx(frags[0].FontSize, 24) || !approx(frags[0].X, 20) {
		t.Errorf("expected size 24 at x 20, got size %v at x %v", frags[0].FontSize, frags[0].X)
	}
}

// TestFragmentCollectorText tests line grouping and paragraph breaks.
func TestFragmentCollectorText(t *testing.T) {
	c := NewFragmentCollector()
	process(t, c, "BT /F1 12 Tf 100 700 Td (Hello) Tj 40 0 Td (World) Tj 0 -14 Td (Next) Tj 0 -40 Td (Far) Tj ET", nil)

	lines := c.Lines()
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if got := lines[0].Text(); got != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", got)
	}
	if got := c.ResultantText(); got != "Hello World\nNext\n\nFar" {
		t.Errorf("expected %q, got %q", "Hello World\nNext\n\nFar", got)
	}
}

// TestFragmentCollectorRTL tests that right-to-left lines are read from
// the right.
func TestFragmentCollectorRTL(t *testing.T) {
	c := NewFragmentCollector()
	c.RenderText(event("עולם", 0, 700, 30, 700, 4))
	c.RenderText(event("שלום", 50, 700, 80, 700, 4))

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Direction != RTL {
		t.Errorf("expected RTL line, got %v", lines[0].Direction)
	}
	if got := c.ResultantText(); got != "שלום עולם" {
		t.Errorf("expected %q, got %q", "שלום עולם", got)
	}
}

// TestShouldInsertSpace tests the gap rule between fragments.
func TestShouldInsertSpace(t *testing.T) {
	base := TextFragment{Text: "a", X: 0, Width: 10, FontSize: 10, SpaceWidth: 2.5}
	tests := []struct {
		name string
		next TextFragment
		want bool
	}{
		{"touching", TextFragment{Text: "b", X: 10}, false},
		{"tiny gap", TextFragment{Text: "b", X: 10.4}, false},
		{"half a space", TextFragment{Text: "b", X: 11.25}, true},
		{"overlap", TextFragment{Text: "b", X: 5}, false},
		{"explicit space", TextFragment{Text: " b", X: 20}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shouldInsertSpace(base, tt.next, LTR); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	noMetrics := TextFragment{Text: "a", Width: 10, FontSize: 10}
	if !shouldInsertSpace(noMetrics, TextFragment{Text: "b", X: 11.25}, LTR) {
		t.Error("expected fallback space width of a quarter em")
	}
}

// TestTextFragmentBounds tests the fragment box.
func TestTextFragmentBounds(t *testing.T) {
	f := TextFragment{X: 10, Y: 100, Width: 50, Height: 10}
	want := model.NewBBox(10, 98, 50, 10)
	if diff := cmp.Diff(want, f.Bounds(), cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}
