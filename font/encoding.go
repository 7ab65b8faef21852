package font

import (
	"strings"
	"unicode/utf8"

	"github.com/tsawler/pdftext/core"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// Encoding maps single-byte character codes to text.
type Encoding struct {
	name  string
	table [256]string
}

// Name returns the encoding name, such as "WinAnsiEncoding".
func (e *Encoding) Name() string { return e.name }

// Text returns the text for code, or "" when the code is undefined.
func (e *Encoding) Text(code byte) string { return e.table[code] }

// Decode returns the first rune for code, or utf8.RuneError.
func (e *Encoding) Decode(code byte) rune {
	r, _ := utf8.DecodeRuneInString(e.table[code])
	return r
}

// DecodeString decodes every byte of data.
func (e *Encoding) DecodeString(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		b.WriteString(e.table[c])
	}
	return b.String()
}

// CodeOf returns the first code that maps to text.
func (e *Encoding) CodeOf(text string) (byte, bool) {
	for i, t := range e.table {
		if t == text {
			return byte(i), true
		}
	}
	return 0, false
}

// WithDifferences returns a copy of e with a /Differences array applied:
// an integer sets the next code, each following name assigns that code.
func (e *Encoding) WithDifferences(diffs core.Array) *Encoding {
	out := &Encoding{name: e.name, table: e.table}
	code := 0
	for _, obj := range diffs {
		switch v := obj.(type) {
		case core.Int:
			code = int(v)
		case core.Real:
			code = int(v)
		case core.Name:
			if code >= 0 && code < 256 {
				if s, ok := GlyphText(string(v)); ok {
					out.table[code] = s
				} else {
					out.table[code] = ""
				}
			}
			code++
		}
	}
	return out
}

func fromCharmap(name string, cm *charmap.Charmap) *Encoding {
	e := &Encoding{name: name}
	for i := 32; i < 256; i++ {
		r := cm.DecodeByte(byte(i))
		if r != utf8.RuneError && r != 0x7f && !(r >= 0x80 && r < 0xa0) {
			e.table[i] = string(r)
		}
	}
	return e
}

func fromOverrides(name string, base func(i int) rune, overrides map[byte]rune) *Encoding {
	e := &Encoding{name: name}
	for i := 0; i < 256; i++ {
		if r := base(i); r != 0 {
			e.table[i] = string(r)
		}
	}
	for c, r := range overrides {
		e.table[c] = string(r)
	}
	return e
}

var (
	// WinAnsiEncoding is Windows code page 1252.
	WinAnsiEncoding = fromCharmap("WinAnsiEncoding", charmap.Windows1252)

	// MacRomanEncoding is the classic Mac OS Roman character set.
	MacRomanEncoding = fromCharmap("MacRomanEncoding", charmap.Macintosh)

	// StandardEncoding is the Adobe standard Latin encoding, the built-in
	// encoding of most Type 1 fonts.
	StandardEncoding = fromOverrides("StandardEncoding", printableASCII, standardHigh)

	// PDFDocEncoding is used for text strings outside content streams.
	PDFDocEncoding = fromOverrides("PDFDocEncoding", latin1, pdfDocSpecial)
)

func printableASCII(i int) rune {
	if i >= 0x20 && i < 0x7f {
		return rune(i)
	}
	return 0
}

func latin1(i int) rune {
	if (i >= 0x20 && i < 0x7f) || i >= 0xa1 || i == '\t' || i == '\n' || i == '\r' {
		if i == 0xad {
			return 0
		}
		return rune(i)
	}
	return 0
}

var standardHigh = map[byte]rune{
	0x27: '’', 0x60: '‘',
	0xa1: '¡', 0xa2: '¢', 0xa3: '£', 0xa4: '⁄', 0xa5: '¥', 0xa6: 'ƒ',
	0xa7: '§', 0xa8: '¤', 0xa9: '\'', 0xaa: '“', 0xab: '«', 0xac: '‹',
	0xad: '›', 0xae: 'ﬁ', 0xaf: 'ﬂ', 0xb1: '–', 0xb2: '†',
	0xb3: '‡', 0xb4: '·', 0xb6: '¶', 0xb7: '•', 0xb8: '‚',
	0xb9: '„', 0xba: '”', 0xbb: '»', 0xbc: '…', 0xbd: '‰',
	0xbf: '¿', 0xc1: '`', 0xc2: '´', 0xc3: 'ˆ', 0xc4: '˜', 0xc5: '¯',
	0xc6: '˘', 0xc7: '˙', 0xc8: '¨', 0xca: '˚', 0xcb: '¸',
	0xcd: '˝', 0xce: '˛', 0xcf: 'ˇ', 0xd0: '—', 0xe1: 'Æ',
	0xe3: 'ª', 0xe8: 'Ł', 0xe9: 'Ø', 0xea: 'Œ', 0xeb: 'º', 0xf1: 'æ',
	0xf5: 'ı', 0xf8: 'ł', 0xf9: 'ø', 0xfa: 'œ', 0xfb: 'ß',
}

var pdfDocSpecial = map[byte]rune{
	0x18: '˘', 0x19: 'ˇ', 0x1a: 'ˆ', 0x1b: '˙',
	0x1c: '˝', 0x1d: '˛', 0x1e: '˚', 0x1f: '˜',
	0x80: '•', 0x81: '†', 0x82: '‡', 0x83: '…',
	0x84: '—', 0x85: '–', 0x86: 'ƒ', 0x87: '⁄',
	0x88: '‹', 0x89: '›', 0x8a: '−', 0x8b: '‰',
	0x8c: '„', 0x8d: '“', 0x8e: '”', 0x8f: '‘',
	0x90: '’', 0x91: '‚', 0x92: '™', 0x93: 'ﬁ',
	0x94: 'ﬂ', 0x95: 'Ł', 0x96: 'Œ', 0x97: 'Š',
	0x98: 'Ÿ', 0x99: 'Ž', 0x9a: 'ı', 0x9b: 'ł',
	0x9c: 'œ', 0x9d: 'š', 0x9e: 'ž', 0xa0: '€',
}

// GetEncoding returns the named base encoding. Unknown names yield
// StandardEncoding.
func GetEncoding(name string) *Encoding {
	switch name {
	case "WinAnsiEncoding":
		return WinAnsiEncoding
	case "MacRomanEncoding", "MacExpertEncoding":
		return MacRomanEncoding
	case "PDFDocEncoding":
		return PDFDocEncoding
	}
	return StandardEncoding
}

var utf16be = unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)

// DecodeUTF16BE decodes big-endian UTF-16 without a byte order mark. An odd
// trailing byte is dropped.
func DecodeUTF16BE(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	out, err := utf16be.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeTextString decodes a PDF text string: UTF-16BE or UTF-8 when it
// starts with the matching byte order mark, PDFDocEncoding otherwise.
func DecodeTextString(b []byte) string {
	switch {
	case len(b) >= 2 && b[0] == 0xfe && b[1] == 0xff:
		return DecodeUTF16BE(b[2:])
	case len(b) >= 3 && b[0] == 0xef && b[1] == 0xbb && b[2] == 0xbf:
		return string(b[3:])
	}
	return PDFDocEncoding.DecodeString(b)
}
