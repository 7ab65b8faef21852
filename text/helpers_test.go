package text

import (
	"math"
	"testing"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// event builds a text event with the baseline (x1,y1)-(x2,y2).
func event(text string, x1, y1, x2, y2, space float64) *processor.TextRenderInfo {
	return processor.NewTextRenderInfo(text, model.LineSegment{
		Start: model.Vector{X: x1, Y: y1},
		End:   model.Vector{X: x2, Y: y2},
	}, space)
}

func helveticaResources() core.Dict {
	return core.Dict{
		"Font": core.Dict{
			"F1": core.Dict{
				"Type":     core.Name("Font"),
				"Subtype":  core.Name("Type1"),
				"BaseFont": core.Name("Helvetica"),
			},
		},
	}
}

func process(t *testing.T, l processor.RenderListener, content string, res core.Dict) {
	t.Helper()
	if res == nil {
		res = helveticaResources()
	}
	if err := processor.New(l).ProcessContent([]byte(content), res); err != nil {
		t.Fatalf("ProcessContent failed: %v", err)
	}
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
