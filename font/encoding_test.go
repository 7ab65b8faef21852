package font

import (
	"testing"

	"github.com/tsawler/pdftext/core"
)

// TestBaseEncodings tests single codes in each base encoding.
func TestBaseEncodings(t *testing.T) {
	tests := []struct {
		name string
		enc  *Encoding
		code byte
		want string
	}{
		{"winansi ascii", WinAnsiEncoding, 'A', "A"},
		{"winansi euro", WinAnsiEncoding, 0x80, "€"},
		{"winansi quote", WinAnsiEncoding, 0x92, "’"},
		{"winansi e-acute", WinAnsiEncoding, 0xe9, "é"},
		{"winansi nbsp", WinAnsiEncoding, 0xa0, "\u00a0"},
		{"macroman a-umlaut", MacRomanEncoding, 0x80, "Ä"},
		{"macroman e-acute", MacRomanEncoding, 0x8e, "é"},
		{"standard quoteright", StandardEncoding, 0x27, "’"},
		{"standard fi", StandardEncoding, 0xae, "ﬁ"},
		{"standard undefined", StandardEncoding, 0xa0, ""},
		{"pdfdoc bullet", PDFDocEncoding, 0x80, "•"},
		{"pdfdoc euro", PDFDocEncoding, 0xa0, "€"},
		{"pdfdoc latin1", PDFDocEncoding, 0xfc, "ü"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.enc.Text(tt.code); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

// TestGetEncoding tests lookup by name.
func TestGetEncoding(t *testing.T) {
	for name, want := range map[string]*Encoding{
		"WinAnsiEncoding":  WinAnsiEncoding,
		"MacRomanEncoding": MacRomanEncoding,
		"PDFDocEncoding":   PDFDocEncoding,
		"Bogus":            StandardEncoding,
	} {
		if got := GetEncoding(name); got != want {
			t.Errorf("GetEncoding(%q): expected %s, got %s", name, want.Name(), got.Name())
		}
	}
}

// TestWithDifferences tests that differences apply to a copy.
func TestWithDifferences(t *testing.T) {
	enc := WinAnsiEncoding.WithDifferences(core.Array{
		core.Int(65), core.Name("Beta"), core.Name("eacute"),
		core.Int(200), core.Name("f_f_i"), core.Name("uni20AC"),
	})
	tests := []struct {
		code byte
		want string
	}{
		{65, ""},
		{66, "é"},
		{67, "C"},
		{200, "ffi"},
		{201, "€"},
	}
	for _, tt := range tests {
		if got := enc.Text(tt.code); got != tt.want {
			t.Errorf("code %d: expected %q, got %q", tt.code, tt.want, got)
		}
	}
	if WinAnsiEncoding.Text(66) != "B" {
		t.Error("expected base encoding to be unchanged")
	}
}

// TestGlyphText tests glyph name resolution.
func TestGlyphText(t *testing.T) {
	tests := []struct {
		name string
		want string
		ok   bool
	}{
		{"space", " ", true},
		{"A", "A", true},
		{"eacute", "é", true},
		{"Scaron", "Š", true},
		{"udieresis", "ü", true},
		{"ccedilla", "ç", true},
		{"uni0041", "A", true},
		{"uni00410042", "AB", true},
		{"u1F600", "\U0001F600", true},
		{"a.sc", "a", true},
		{"f_i", "fi", true},
		{"germandbls", "ß", true},
		{"g123", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := GlyphText(tt.name)
		if got != tt.want || ok != tt.ok {
			t.Errorf("GlyphText(%q): expected %q/%v, got %q/%v", tt.name, tt.want, tt.ok, got, ok)
		}
	}
}

// TestDecodeTextString tests byte order marks and PDFDocEncoding.
func TestDecodeTextString(t *testing.T) {
	tests := []struct {
		in   []byte
		want string
	}{
		{[]byte{0xfe, 0xff, 0x00, 'H', 0x00, 'i'}, "Hi"},
		{[]byte{0xfe, 0xff, 0x04, 0x1f}, "П"},
		{[]byte{0xef, 0xbb, 0xbf, 'o', 'k'}, "ok"},
		{[]byte{'a', 0x80, 'b'}, "a•b"},
	}
	for _, tt := range tests {
		if got := DecodeTextString(tt.in); got != tt.want {
			t.Errorf("DecodeTextString(% x): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}
