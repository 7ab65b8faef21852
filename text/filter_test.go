package text

import (
	"testing"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// imageCounter is a strategy that also counts images.
type imageCounter struct {
	*SimpleTextExtractionStrategy
	images []string
}

func (c *imageCounter) RenderImage(info *processor.ImageRenderInfo) {
	c.images = append(c.images, info.Name())
}

// TestSegmentIntersects tests clipping a baseline against a box.
func TestSegmentIntersects(t *testing.T) {
	box := model.NewBBox(0, 0, 10, 10)
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		want           bool
	}{
		{"inside", 2, 2, 8, 2, true},
		{"crossing", -5, 5, 15, 5, true},
		{"one end inside", 5, 5, 20, 5, true},
		{"left of box", -10, 5, -1, 5, false},
		{"above box", 0, 11, 10, 11, false},
		{"diagonal miss", 9, 13, 13, 9, false},
		{"diagonal hit", -1, 5, 5, -1, true},
		{"point inside", 3, 3, 3, 3, true},
		{"point outside", 30, 3, 30, 3, false},
		{"on the edge", 0, 0, 10, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seg := model.LineSegment{
				Start: model.Vector{X: tt.x1, Y: tt.y1},
				End:   model.Vector{X: tt.x2, Y: tt.y2},
			}
			if got := segmentIntersects(seg, box); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestRegionFilterText tests that only text crossing the region passes.
func TestRegionFilterText(t *testing.T) {
	s := NewSimpleTextExtractionStrategy()
	l := NewFilteredListener(s, RegionFilter{Region: model.NewBBox(0, 690, 150, 30)})
	process(t, l, "BT /F1 12 Tf 100 700 Td (Hello) Tj 40 0 Td (World) Tj 0 -20 Td (Next) Tj ET", nil)

	if got := l.ResultantText(); got != "Hello World" {
		t.Errorf("expected %q, got %q", "Hello World", got)
	}
}

// TestRegionFilterImage tests that only images overlapping the region pass.
func TestRegionFilterImage(t *testing.T) {
	img := func() *core.Stream {
		return &core.Stream{Dict: core.Dict{
			"Subtype":          core.Name("Image"),
			"Width":            core.Int(1),
			"Height":           core.Int(1),
			"BitsPerComponent": core.Int(8),
			"ColorSpace":       core.Name("DeviceGray"),
		}, Data: []byte{0}}
	}
	res := core.Dict{"XObject": core.Dict{"Im1": img(), "Im2": img()}}

	c := &imageCounter{SimpleTextExtractionStrategy: NewSimpleTextExtractionStrategy()}
	l := NewFilteredListener(c, RegionFilter{Region: model.NewBBox(0, 0, 200, 200)})
	process(t, l, "q 10 0 0 10 100 100 cm /Im1 Do Q q 10 0 0 10 500 500 cm /Im2 Do Q", res)

	if len(c.images) != 1 || c.images[0] != "Im1" {
		t.Errorf("expected only Im1, got %v", c.images)
	}
}

// TestVisibleTextFilter tests that invisible text is dropped.
func TestVisibleTextFilter(t *testing.T) {
	s := NewSimpleTextExtractionStrategy()
	l := NewFilteredListener(s, VisibleTextFilter{})
	process(t, l, "BT /F1 12 Tf 3 Tr 100 700 Td (hidden) Tj 0 Tr 0 -20 Td (shown) Tj ET", nil)

	if got := l.ResultantText(); got != "shown" {
		t.Errorf("expected %q, got %q", "shown", got)
	}
}

// TestFilteredListenerChain tests that every filter must allow an event.
func TestFilteredListenerChain(t *testing.T) {
	s := NewSimpleTextExtractionStrategy()
	l := NewFilteredListener(s,
		RegionFilter{Region: model.NewBBox(0, 0, 1000, 1000)},
		VisibleTextFilter{},
	)
	process(t, l, "BT /F1 12 Tf 100 700 Td (in) Tj 3 Tr (hidden) Tj 0 Tr 2000 0 Td (out) Tj ET", nil)

	if got := l.ResultantText(); got != "in" {
		t.Errorf("expected %q, got %q", "in", got)
	}
}
