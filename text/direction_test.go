package text

import (
	"testing"
)

// TestGetCharDirection tests the direction of single runes.
func TestGetCharDirection(t *testing.T) {
	tests := []struct {
		name string
		char rune
		want Direction
	}{
		{"Arabic alif", 'ا', RTL},
		{"Arabic meem", 'م', RTL},
		{"Hebrew alef", 'א', RTL},
		{"Hebrew shin", 'ש', RTL},
		{"Syriac alaph", 'ܐ', RTL},
		{"Thaana haa", 'ހ', RTL},
		{"Latin A", 'A', LTR},
		{"Latin e acute", 'é', LTR},
		{"Cyrillic ya", 'я', LTR},
		{"Greek Omega", 'Ω', LTR},
		{"CJK", '中', LTR},
		{"Hiragana", 'あ', LTR},
		{"Space", ' ', Neutral},
		{"Digit", '5', Neutral},
		{"Arabic-Indic digit", '٣', Neutral},
		{"Period", '.', Neutral},
		{"Exclamation", '!', Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCharDirection(tt.char); got != tt.want {
				t.Errorf("GetCharDirection(%q) expected %v, got %v", tt.char, tt.want, got)
			}
		})
	}
}

// TestDetectDirection tests the dominant direction of strings.
func TestDetectDirection(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Direction
	}{
		{"empty", "", Neutral},
		{"english", "Hello world", LTR},
		{"arabic", "مرحبا بالعالم", RTL},
		{"hebrew", "שלום עולם", RTL},
		{"numbers", "12 345.6", Neutral},
		{"mostly arabic", "مرحبا hi", RTL},
		{"mostly english", "hello مر", LTR},
		{"tie", "ab אב", LTR},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDirection(tt.text); got != tt.want {
				t.Errorf("DetectDirection(%q) expected %v, got %v", tt.text, tt.want, got)
			}
		})
	}
}

// TestDirectionString tests the names of directions.
func TestDirectionString(t *testing.T) {
	for d, want := range map[Direction]string{LTR: "LTR", RTL: "RTL", Neutral: "Neutral", Direction(9): "Unknown"} {
		if got := d.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}

// TestLineDirection tests the direction chosen for a line of parts.
func TestLineDirection(t *testing.T) {
	if got := lineDirection([]string{"123", "!"}); got != LTR {
		t.Errorf("expected LTR for neutral parts, got %v", got)
	}
	if got := lineDirection([]string{"שלום", "עולם", "ok"}); got != RTL {
		t.Errorf("expected RTL, got %v", got)
	}
}
