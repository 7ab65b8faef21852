package font

import (
	"github.com/tsawler/pdftext/core"
)

// SimpleFont is a font with one-byte codes: Type1, MMType1, TrueType or
// Type3.
type SimpleFont struct {
	baseFont  string
	subtype   string
	encoding  *Encoding
	toUnicode *CMap

	firstChar    int
	widths       []float64
	missingWidth float64
	std          *metrics

	ascent, descent float64
	spaceWidth      float64
}

func loadSimple(dict core.Dict, r core.Resolver) (*SimpleFont, error) {
	subtype, _ := dict.GetName("Subtype")
	f := &SimpleFont{
		baseFont: stripSubset(baseFontName(dict, r)),
		subtype:  string(subtype),
	}
	if f.subtype == "" {
		f.subtype = "Type1"
	}

	fd := readDescriptor(dict.Get("FontDescriptor"), r)
	f.missingWidth = fd.missingWidth
	f.ascent, f.descent = fd.ascent, fd.descent

	scale := 1.0
	if f.subtype == "Type3" {
		// Type3 widths are in glyph space; convert through /FontMatrix.
		if fm, ok := core.ResolveArray(r, dict.Get("FontMatrix")); ok {
			if a, ok := core.ResolveNumber(r, fm.Get(0)); ok && a != 0 {
				scale = 1000 * a
			}
		}
		f.missingWidth *= scale
	}

	if first, ok := core.ResolveNumber(r, dict.Get("FirstChar")); ok {
		f.firstChar = int(first)
	}
	if ws, ok := core.ResolveArray(r, dict.Get("Widths")); ok {
		f.widths = make([]float64, len(ws))
		for i, w := range ws {
			v, _ := core.ResolveNumber(r, w)
			f.widths[i] = v * scale
		}
	}
	if m, ok := standardMetrics(f.baseFont); ok && f.subtype != "Type3" {
		f.std = m
		if !fd.found {
			f.ascent, f.descent = m.ascent, m.descent
		}
	}
	if f.ascent == 0 && f.descent == 0 {
		f.ascent, f.descent = 750, -250
	}

	f.encoding = f.readEncoding(dict.Get("Encoding"), r, fd)
	f.toUnicode = readToUnicode(dict.Get("ToUnicode"), r)
	f.spaceWidth = f.computeSpaceWidth()
	return f, nil
}

// readEncoding resolves /Encoding as a name or a dictionary with
// /BaseEncoding and /Differences. Without one, nonsymbolic TrueType fonts
// default to WinAnsiEncoding and the rest to StandardEncoding.
func (f *SimpleFont) readEncoding(obj core.Object, r core.Resolver, fd descriptor) *Encoding {
	base := StandardEncoding
	if f.subtype == "TrueType" && fd.flags&flagSymbolic == 0 {
		base = WinAnsiEncoding
	}
	if obj == nil {
		return base
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return base
	}
	switch v := resolved.(type) {
	case core.Name:
		return GetEncoding(string(v))
	case core.Dict:
		if name, ok := v.GetName("BaseEncoding"); ok {
			base = GetEncoding(string(name))
		}
		if diffs, ok := core.ResolveArray(r, v.Get("Differences")); ok {
			return base.WithDifferences(diffs)
		}
	}
	return base
}

// Name implements Font.
func (f *SimpleFont) Name() string { return f.baseFont }

// Subtype implements Font.
func (f *SimpleFont) Subtype() string { return f.subtype }

// Encoding returns the effective encoding.
func (f *SimpleFont) Encoding() *Encoding { return f.encoding }

// Ascent implements Font.
func (f *SimpleFont) Ascent() float64 { return f.ascent }

// Descent implements Font.
func (f *SimpleFont) Descent() float64 { return f.descent }

// IsVertical implements Font. Simple fonts are always horizontal.
func (f *SimpleFont) IsVertical() bool { return false }

// SpaceWidth implements Font.
func (f *SimpleFont) SpaceWidth() float64 { return f.spaceWidth }

func (f *SimpleFont) text(code byte) string {
	if f.toUnicode != nil {
		if s, ok := f.toUnicode.Unicode(uint32(code)); ok {
			return s
		}
	}
	return f.encoding.Text(code)
}

// Width returns the advance for code in thousandths of text space.
func (f *SimpleFont) Width(code byte) float64 {
	if i := int(code) - f.firstChar; f.widths != nil && i >= 0 && i < len(f.widths) {
		return f.widths[i]
	}
	if f.std != nil {
		r := f.encoding.Decode(code)
		if w, ok := f.std.width(r); ok {
			return w
		}
		if f.missingWidth == 0 {
			return f.std.fallback
		}
	}
	return f.missingWidth
}

// Glyphs implements Font.
func (f *SimpleFont) Glyphs(data []byte) []Glyph {
	glyphs := make([]Glyph, len(data))
	for i, c := range data {
		glyphs[i] = Glyph{
			Code:    uint32(c),
			Bytes:   1,
			Text:    f.text(c),
			Width:   f.Width(c),
			IsSpace: c == ' ',
		}
	}
	return glyphs
}

// DecodeString implements Font.
func (f *SimpleFont) DecodeString(data []byte) string {
	return decodeGlyphs(f, data)
}

func (f *SimpleFont) computeSpaceWidth() float64 {
	if w := f.Width(' '); w > 0 {
		return w
	}
	if code, ok := f.encoding.CodeOf("\u00a0"); ok {
		if w := f.Width(code); w > 0 {
			return w
		}
	}
	if f.missingWidth > 0 {
		return f.missingWidth
	}
	if f.std != nil {
		return f.std.ascii[0]
	}
	return averageWidth(f.widths)
}

func averageWidth(ws []float64) float64 {
	var sum float64
	n := 0
	for _, w := range ws {
		if w > 0 {
			sum += w
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
