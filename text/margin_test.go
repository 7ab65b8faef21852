package text

import (
	"math"
	"testing"
)

// TestTextMarginFinder tests the union of the text boxes on a page.
func TestTextMarginFinder(t *testing.T) {
	m := &TextMarginFinder{}
	if _, ok := m.Bounds(); ok {
		t.Error("expected no bounds before any text")
	}

	process(t, m, "BT /F1 10 Tf 72 700 Td (Hi) Tj ET BT /F1 10 Tf 100 100 Td (Lo) Tj ET", nil)

	box, ok := m.Bounds()
	if !ok {
		t.Fatal("expected bounds after text")
	}
	checks := []struct {
		name      string
		got, want float64
	}{
		{"left", m.Left(), 72},
		{"right", m.Right(), 111.12},
		{"bottom", m.Bottom(), 97.93},
		{"top", m.Top(), 707.18},
		{"width", box.Width, 39.12},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, c.got)
		}
	}
}
