package font

import (
	"math"
	"testing"

	"github.com/tsawler/pdftext/core"
)

func refResolver(objs map[int]core.Object) core.Resolver {
	return core.ResolverFunc(func(obj core.Object) (core.Object, error) {
		if ref, ok := obj.(core.IndirectRef); ok {
			if v, ok := objs[ref.Number]; ok {
				return v, nil
			}
			return core.Null{}, nil
		}
		return obj, nil
	})
}

// TestLoadSimpleFont tests widths, encoding and ToUnicode priority.
func TestLoadSimpleFont(t *testing.T) {
	objs := map[int]core.Object{
		5: &core.Stream{Dict: core.Dict{}, Data: []byte("1 beginbfchar <42> <03B2> endbfchar")},
		6: core.Dict{"Type": core.Name("FontDescriptor"), "Ascent": core.Int(700), "Descent": core.Int(-200), "MissingWidth": core.Int(300)},
	}
	dict := core.Dict{
		"Type":           core.Name("Font"),
		"Subtype":        core.Name("TrueType"),
		"BaseFont":       core.Name("ABCDEF+MyFont"),
		"FirstChar":      core.Int(32),
		"Widths":         core.Array{core.Int(250), core.Int(0), core.Int(0)},
		"Encoding":       core.Name("WinAnsiEncoding"),
		"ToUnicode":      core.IndirectRef{Number: 5},
		"FontDescriptor": core.IndirectRef{Number: 6},
	}
	f, err := Load(dict, refResolver(objs))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if f.Name() != "MyFont" {
		t.Errorf("expected subset tag stripped, got %q", f.Name())
	}
	if got := f.DecodeString([]byte("AB ")); got != "Aβ " {
		t.Errorf("expected %q, got %q", "Aβ ", got)
	}

	glyphs := f.Glyphs([]byte(" A"))
	if glyphs[0].Width != 250 || !glyphs[0].IsSpace {
		t.Errorf("expected space glyph of width 250, got %+v", glyphs[0])
	}
	if glyphs[1].Width != 300 || glyphs[1].IsSpace {
		t.Errorf("expected missing width 300 for 'A', got %+v", glyphs[1])
	}
	if f.SpaceWidth() != 250 {
		t.Errorf("expected space width 250, got %v", f.SpaceWidth())
	}
	if f.Ascent() != 700 || f.Descent() != -200 {
		t.Errorf("expected ascent/descent 700/-200, got %v/%v", f.Ascent(), f.Descent())
	}
}

// TestLoadStandardFont tests built-in metrics without /Widths.
func TestLoadStandardFont(t *testing.T) {
	f, err := Load(core.Dict{"Subtype": core.Name("Type1"), "BaseFont": core.Name("Helvetica")}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	glyphs := f.Glyphs([]byte("Wi"))
	if glyphs[0].Width != 944 || glyphs[1].Width != 222 {
		t.Errorf("expected Helvetica widths 944/222, got %v/%v", glyphs[0].Width, glyphs[1].Width)
	}
	if f.SpaceWidth() != 278 {
		t.Errorf("expected space width 278, got %v", f.SpaceWidth())
	}
	if f.Ascent() != 718 {
		t.Errorf("expected ascent 718, got %v", f.Ascent())
	}
}

// TestSpaceWidthFallback tests the non-breaking space and default width
// fallbacks.
func TestSpaceWidthFallback(t *testing.T) {
	nbsp, err := Load(core.Dict{
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Custom"),
		"FirstChar": core.Int(160),
		"Widths":    core.Array{core.Int(240)},
		"Encoding":  core.Name("WinAnsiEncoding"),
	}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if nbsp.SpaceWidth() != 240 {
		t.Errorf("expected non-breaking space width 240, got %v", nbsp.SpaceWidth())
	}

	avg, err := Load(core.Dict{
		"Subtype":   core.Name("Type1"),
		"BaseFont":  core.Name("Custom"),
		"FirstChar": core.Int(65),
		"Widths":    core.Array{core.Int(400), core.Int(600)},
	}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if avg.SpaceWidth() != 500 {
		t.Errorf("expected average width 500, got %v", avg.SpaceWidth())
	}
}

// TestLoadType3Font tests FontMatrix scaling of widths.
func TestLoadType3Font(t *testing.T) {
	f, err := Load(core.Dict{
		"Subtype":    core.Name("Type3"),
		"FontMatrix": core.Array{core.Real(0.01), core.Int(0), core.Int(0), core.Real(0.01), core.Int(0), core.Int(0)},
		"FirstChar":  core.Int(97),
		"Widths":     core.Array{core.Int(50)},
		"Encoding":   core.Dict{"Differences": core.Array{core.Int(97), core.Name("x")}},
	}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	g := f.Glyphs([]byte("a"))[0]
	if math.Abs(g.Width-500) > 1e-9 || g.Text != "x" {
		t.Errorf("expected width 500 and text x, got %+v", g)
	}
}

// TestLoadCompositeFont tests Identity-H codes, /W widths and ToUnicode.
func TestLoadCompositeFont(t *testing.T) {
	objs := map[int]core.Object{
		7: &core.Stream{Dict: core.Dict{}, Data: []byte(toUnicodeCMap)},
	}
	dict := core.Dict{
		"Subtype":  core.Name("Type0"),
		"BaseFont": core.Name("XYZABC+Noto"),
		"Encoding": core.Name("Identity-H"),
		"DescendantFonts": core.Array{core.Dict{
			"Subtype": core.Name("CIDFontType2"),
			"DW":      core.Int(900),
			"W": core.Array{
				core.Int(3), core.Array{core.Int(260)},
				core.Int(0x24), core.Int(0x26), core.Int(640),
			},
		}},
		"ToUnicode": core.IndirectRef{Number: 7},
	}
	f, err := Load(dict, refResolver(objs))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	glyphs := f.Glyphs([]byte{0x00, 0x24, 0x00, 0x03, 0x00, 0x50})
	if len(glyphs) != 3 {
		t.Fatalf("expected 3 glyphs, got %d", len(glyphs))
	}
	want := []struct {
		text  string
		width float64
	}{{"A", 640}, {" ", 260}, {"", 900}}
	for i, w := range want {
		if glyphs[i].Text != w.text || glyphs[i].Width != w.width {
			t.Errorf("glyph %d: expected %q/%v, got %q/%v", i, w.text, w.width, glyphs[i].Text, glyphs[i].Width)
		}
		if glyphs[i].IsSpace {
			t.Errorf("glyph %d: two-byte codes never take word spacing", i)
		}
	}
	if f.SpaceWidth() != 260 {
		t.Errorf("expected space width from the CID mapped to space, got %v", f.SpaceWidth())
	}
	if f.IsVertical() {
		t.Error("expected horizontal writing")
	}
}

// TestDefaultFont tests the fallback font.
func TestDefaultFont(t *testing.T) {
	f := Default()
	if f.Name() != "Helvetica" {
		t.Errorf("expected Helvetica, got %q", f.Name())
	}
	if got := f.DecodeString([]byte("Hi")); got != "Hi" {
		t.Errorf("expected %q, got %q", "Hi", got)
	}
}

// TestLoadUnsupportedSubtype tests the error path.
func TestLoadUnsupportedSubtype(t *testing.T) {
	if _, err := Load(core.Dict{"Subtype": core.Name("OpenType")}, nil); err == nil {
		t.Error("expected error for unknown subtype")
	}
}
