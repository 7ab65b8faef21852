package font

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdftext/core"
)

// Glyph is one character code of a shown string.
type Glyph struct {
	Code  uint32
	Bytes int     // length of the code in bytes
	Text  string  // Unicode text, "" when unknown
	Width float64 // horizontal advance in thousandths of text space

	// IsSpace is true for the single-byte code 32, the only code word
	// spacing applies to.
	IsSpace bool
}

// Font decodes strings shown with a font.
type Font interface {
	// Name returns the BaseFont name without any subset tag.
	Name() string
	Subtype() string
	Glyphs(data []byte) []Glyph
	DecodeString(data []byte) string
	// SpaceWidth returns the width of a space, or of a non-breaking space,
	// or the font's default width, in thousandths of text space.
	SpaceWidth() float64
	Ascent() float64
	Descent() float64
	IsVertical() bool
}

// Load builds a font from its dictionary.
func Load(dict core.Dict, r core.Resolver) (Font, error) {
	if r == nil {
		r = core.NoResolver
	}
	subtype, _ := dict.GetName("Subtype")
	switch subtype {
	case "Type0":
		return loadComposite(dict, r)
	case "Type1", "MMType1", "TrueType", "Type3", "":
		return loadSimple(dict, r)
	}
	return nil, fmt.Errorf("unsupported font subtype %q", subtype)
}

// Default returns Helvetica with its built-in metrics, used when text is
// shown before any font is selected.
func Default() Font {
	return Standard("Helvetica")
}

// Standard returns one of the standard 14 fonts by name. Unknown names use
// Helvetica metrics.
func Standard(name string) Font {
	m, ok := standardMetrics(name)
	if !ok {
		m = helvetica
	}
	f := &SimpleFont{
		baseFont: name,
		subtype:  "Type1",
		encoding: StandardEncoding,
		std:      m,
		ascent:   m.ascent,
		descent:  m.descent,
	}
	if name != "Symbol" && name != "ZapfDingbats" {
		f.encoding = WinAnsiEncoding
	}
	f.spaceWidth = f.computeSpaceWidth()
	return f
}

// descriptor holds the metrics read from a /FontDescriptor.
type descriptor struct {
	ascent, descent float64
	missingWidth    float64
	flags           int
	found           bool
}

const flagSymbolic = 1 << 2

func readDescriptor(obj core.Object, r core.Resolver) descriptor {
	d, ok := core.ResolveDict(r, obj)
	if !ok {
		return descriptor{}
	}
	var fd descriptor
	fd.found = true
	fd.ascent, _ = core.ResolveNumber(r, d.Get("Ascent"))
	fd.descent, _ = core.ResolveNumber(r, d.Get("Descent"))
	fd.missingWidth, _ = core.ResolveNumber(r, d.Get("MissingWidth"))
	flags, _ := core.ResolveNumber(r, d.Get("Flags"))
	fd.flags = int(flags)
	return fd
}

func readToUnicode(obj core.Object, r core.Resolver) *CMap {
	if obj == nil {
		return nil
	}
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil
	}
	s, ok := resolved.(*core.Stream)
	if !ok {
		return nil
	}
	data, err := s.DecodeWith(r)
	if err != nil {
		return nil
	}
	cm, err := ParseCMap(data)
	if err != nil {
		return nil
	}
	return cm
}

func baseFontName(dict core.Dict, r core.Resolver) string {
	obj, err := r.Resolve(dict.Get("BaseFont"))
	if err != nil {
		return ""
	}
	if n, ok := obj.(core.Name); ok {
		return string(n)
	}
	return ""
}

func decodeGlyphs(f Font, data []byte) string {
	var b strings.Builder
	for _, g := range f.Glyphs(data) {
		b.WriteString(g.Text)
	}
	return b.String()
}
