// Package font turns the character codes of a shown string into text and
// glyph widths.
//
// [Load] builds a [Font] from a font dictionary. Simple fonts (Type1,
// TrueType, Type3) use one-byte codes, a base encoding with /Differences and
// the /Widths array, falling back to built-in metrics for the standard 14
// fonts. Composite (Type0) fonts read codes through an encoding CMap and
// widths from the descendant font's /W and /DW entries.
//
// A ToUnicode CMap, when present, takes priority for text:
//
//	f, err := font.Load(fontDict, resolver)
//	for _, g := range f.Glyphs(raw) {
//		fmt.Println(g.Code, g.Text, g.Width)
//	}
//
// Widths are in thousandths of text space units, as in the font dictionary.
// Font programs are not parsed.
package font
