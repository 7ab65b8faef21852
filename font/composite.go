package font

import (
	"strings"

	"github.com/tsawler/pdftext/core"
)

// CompositeFont is a Type0 font with a CIDFont descendant.
type CompositeFont struct {
	baseFont  string
	encoding  *CMap
	toUnicode *CMap

	defaultWidth float64
	widths       map[uint32]float64

	ascent, descent float64
	spaceWidth      float64
}

func loadComposite(dict core.Dict, r core.Resolver) (*CompositeFont, error) {
	f := &CompositeFont{
		baseFont:     stripSubset(baseFontName(dict, r)),
		defaultWidth: 1000,
		widths:       make(map[uint32]float64),
	}

	f.encoding = IdentityCMap(false)
	if enc, err := r.Resolve(dict.Get("Encoding")); err == nil {
		switch v := enc.(type) {
		case core.Name:
			// Predefined CMaps other than Identity are read as two-byte
			// identity codes.
			f.encoding = IdentityCMap(strings.HasSuffix(string(v), "-V"))
			f.encoding.Name = string(v)
		case *core.Stream:
			if data, err := v.DecodeWith(r); err == nil {
				if cm, err := ParseCMap(data); err == nil && cm.HasCodespace() {
					f.encoding = cm
				}
			}
		}
	}

	if kids, ok := core.ResolveArray(r, dict.Get("DescendantFonts")); ok && len(kids) > 0 {
		if cid, ok := core.ResolveDict(r, kids[0]); ok {
			f.readDescendant(cid, r)
		}
	}
	if f.ascent == 0 && f.descent == 0 {
		f.ascent, f.descent = 880, -120
	}

	f.toUnicode = readToUnicode(dict.Get("ToUnicode"), r)
	f.spaceWidth = f.computeSpaceWidth()
	return f, nil
}

func (f *CompositeFont) readDescendant(cid core.Dict, r core.Resolver) {
	if dw, ok := core.ResolveNumber(r, cid.Get("DW")); ok {
		f.defaultWidth = dw
	}
	fd := readDescriptor(cid.Get("FontDescriptor"), r)
	f.ascent, f.descent = fd.ascent, fd.descent

	w, ok := core.ResolveArray(r, cid.Get("W"))
	if !ok {
		return
	}
	// /W holds "c [w1 w2 ...]" and "cfirst clast w" groups.
	for i := 0; i < len(w); {
		first, ok := core.ResolveNumber(r, w[i])
		if !ok || i+1 >= len(w) {
			return
		}
		if arr, ok := core.ResolveArray(r, w[i+1]); ok {
			for j, obj := range arr {
				if v, ok := core.ResolveNumber(r, obj); ok {
					f.widths[uint32(first)+uint32(j)] = v
				}
			}
			i += 2
			continue
		}
		if i+2 >= len(w) {
			return
		}
		last, ok1 := core.ResolveNumber(r, w[i+1])
		v, ok2 := core.ResolveNumber(r, w[i+2])
		if !ok1 || !ok2 || last < first || last-first > maxRangeExpansion {
			return
		}
		for c := uint32(first); c <= uint32(last); c++ {
			f.widths[c] = v
		}
		i += 3
	}
}

// Name implements Font.
func (f *CompositeFont) Name() string { return f.baseFont }

// Subtype implements Font.
func (f *CompositeFont) Subtype() string { return "Type0" }

// Ascent implements Font.
func (f *CompositeFont) Ascent() float64 { return f.ascent }

// Descent implements Font.
func (f *CompositeFont) Descent() float64 { return f.descent }

// IsVertical implements Font.
func (f *CompositeFont) IsVertical() bool { return f.encoding.Vertical() }

// SpaceWidth implements Font.
func (f *CompositeFont) SpaceWidth() float64 { return f.spaceWidth }

// CIDWidth returns the advance for a CID.
func (f *CompositeFont) CIDWidth(cid uint32) float64 {
	if w, ok := f.widths[cid]; ok {
		return w
	}
	return f.defaultWidth
}

// Glyphs implements Font.
func (f *CompositeFont) Glyphs(data []byte) []Glyph {
	var glyphs []Glyph
	for len(data) > 0 {
		code, n := f.encoding.NextCode(data)
		data = data[n:]
		g := Glyph{
			Code:    code,
			Bytes:   n,
			Width:   f.CIDWidth(f.encoding.CID(code)),
			IsSpace: n == 1 && code == ' ',
		}
		if f.toUnicode != nil {
			g.Text, _ = f.toUnicode.Unicode(code)
		}
		glyphs = append(glyphs, g)
	}
	return glyphs
}

// DecodeString implements Font.
func (f *CompositeFont) DecodeString(data []byte) string {
	return decodeGlyphs(f, data)
}

func (f *CompositeFont) computeSpaceWidth() float64 {
	if f.toUnicode != nil {
		for _, s := range []string{" ", "\u00a0"} {
			if code, ok := f.toUnicode.CodeFor(s); ok {
				if w := f.CIDWidth(f.encoding.CID(code)); w > 0 {
					return w
				}
			}
		}
	}
	return f.defaultWidth
}
