package text

import (
	"testing"

	"github.com/tsawler/pdftext/processor"
)

// TestLocationTextExtractionStrategy tests that chunks are sorted into
// lines before joining.
func TestLocationTextExtractionStrategy(t *testing.T) {
	tests := []struct {
		name   string
		events []*processor.TextRenderInfo
		want   string
	}{
		{
			name: "lines drawn bottom first",
			events: []*processor.TextRenderInfo{
				event("World", 0, 680, 25, 680, 4),
				event("Hello", 0, 700, 25, 700, 4),
				event("there", 30, 700, 55, 700, 4),
			},
			want: "Hello there\nWorld",
		},
		{
			name: "words drawn right to left",
			events: []*processor.TextRenderInfo{
				event("B", 30, 700, 35, 700, 4),
				event("A", 0, 700, 5, 700, 4),
			},
			want: "A B",
		},
		{
			name: "adjacent chunks join without space",
			events: []*processor.TextRenderInfo{
				event("Hel", 0, 700, 15, 700, 4),
				event("lo", 15.5, 700, 25, 700, 4),
			},
			want: "Hello",
		},
		{
			name: "overlap wider than a space is a word break",
			events: []*processor.TextRenderInfo{
				event("abc", 0, 700, 30, 700, 4),
				event("def", 20, 700, 50, 700, 4),
			},
			want: "abc def",
		},
		{
			name: "existing space",
			events: []*processor.TextRenderInfo{
				event("Hello ", 0, 700, 30, 700, 4),
				event("World", 40, 700, 65, 700, 4),
			},
			want: "Hello World",
		},
		{
			name: "right to left line",
			events: []*processor.TextRenderInfo{
				event("עולם", 0, 700, 30, 700, 4),
				event("שלום", 50, 700, 80, 700, 4),
			},
			want: "שלום עולם",
		},
		{
			name: "vertical text is its own line",
			events: []*processor.TextRenderInfo{
				event("across", 0, 700, 30, 700, 4),
				event("up", 100, 0, 100, 10, 4),
			},
			want: "across\nup",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewLocationTextExtractionStrategy()
			for _, e := range tt.events {
				s.RenderText(e)
			}
			if got := s.ResultantText(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestLocationTextExtractionStrategyFilter tests ResultantTextFiltered.
func TestLocationTextExtractionStrategyFilter(t *testing.T) {
	s := NewLocationTextExtractionStrategy()
	s.RenderText(event("keep", 0, 700, 20, 700, 4))
	s.RenderText(event("drop", 30, 700, 50, 700, 4))
	s.RenderText(event("also", 60, 700, 80, 700, 4))

	got := s.ResultantTextFiltered(func(c TextChunk) bool { return c.Text != "drop" })
	if got != "keep also" {
		t.Errorf("expected %q, got %q", "keep also", got)
	}
	if got := s.ResultantText(); got != "keep drop also" {
		t.Errorf("expected %q, got %q", "keep drop also", got)
	}

	chunks := s.Chunks()
	if len(chunks) != 3 || chunks[1].Text != "drop" || chunks[1].MCID != -1 {
		t.Errorf("unexpected chunks %+v", chunks)
	}
	chunks[0].Text = "changed"
	if s.Chunks()[0].Text != "keep" {
		t.Error("expected Chunks to return a copy")
	}
}

// TestLocationTextExtractionStrategyContent tests a two-column layout
// drawn column by column.
func TestLocationTextExtractionStrategyContent(t *testing.T) {
	content := "BT /F1 12 Tf 72 700 Td (Left1) Tj 0 -20 Td (Left2) Tj ET " +
		"BT /F1 12 Tf 300 700 Td (Right1) Tj 0 -20 Td (Right2) Tj ET"

	s := NewLocationTextExtractionStrategy()
	process(t, s, content, nil)
	want := "Left1 Right1\nLeft2 Right2"
	if got := s.ResultantText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	simple := NewSimpleTextExtractionStrategy()
	process(t, simple, content, nil)
	if got := simple.ResultantText(); got == want {
		t.Error("expected drawing order to differ from reading order")
	}
}
