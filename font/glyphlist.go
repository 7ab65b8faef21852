package font

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// glyphNames maps the glyph names used by the standard Latin encodings that
// cannot be derived from a base letter and an accent suffix.
var glyphNames = map[string]string{
	"space": " ", "exclam": "!", "quotedbl": "\"", "numbersign": "#",
	"dollar": "$", "percent": "%", "ampersand": "&", "quotesingle": "'",
	"parenleft": "(", "parenright": ")", "asterisk": "*", "plus": "+",
	"comma": ",", "hyphen": "-", "period": ".", "slash": "/",
	"zero": "0", "one": "1", "two": "2", "three": "3", "four": "4",
	"five": "5", "six": "6", "seven": "7", "eight": "8", "nine": "9",
	"colon": ":", "semicolon": ";", "less": "<", "equal": "=",
	"greater": ">", "question": "?", "at": "@", "bracketleft": "[",
	"backslash": "\\", "bracketright": "]", "asciicircum": "^",
	"underscore": "_", "grave": "`", "braceleft": "{", "bar": "|",
	"braceright": "}", "asciitilde": "~",

	"quoteright": "’", "quoteleft": "‘", "quotesinglbase": "‚",
	"quotedblleft": "“", "quotedblright": "”", "quotedblbase": "„",
	"guillemotleft": "«", "guillemotright": "»",
	"guilsinglleft": "‹", "guilsinglright": "›",
	"endash": "–", "emdash": "—", "bullet": "•",
	"ellipsis": "…", "dagger": "†", "daggerdbl": "‡",
	"perthousand": "‰", "trademark": "™", "minus": "−",
	"fraction": "⁄", "florin": "ƒ", "Euro": "€",

	"fi": "fi", "fl": "fl", "ff": "ff", "ffi": "ffi", "ffl": "ffl",

	"exclamdown": "¡", "cent": "¢", "sterling": "£",
	"currency": "¤", "yen": "¥", "brokenbar": "¦",
	"section": "§", "copyright": "©", "ordfeminine": "ª",
	"logicalnot": "¬", "registered": "®", "degree": "°",
	"plusminus": "±", "twosuperior": "²", "threesuperior": "³",
	"mu": "µ", "paragraph": "¶", "periodcentered": "·",
	"onesuperior": "¹", "ordmasculine": "º", "onequarter": "¼",
	"onehalf": "½", "threequarters": "¾", "questiondown": "¿",
	"multiply": "×", "divide": "÷", "nbspace": "\u00a0",
	"nonbreakingspace": "\u00a0", "sfthyphen": "\u00ad", "softhyphen": "\u00ad",

	"acute": "´", "dieresis": "¨", "macron": "¯",
	"cedilla": "¸", "circumflex": "ˆ", "tilde": "˜",
	"breve": "˘", "dotaccent": "˙", "ring": "˚",
	"hungarumlaut": "˝", "ogonek": "˛", "caron": "ˇ",

	"AE": "Æ", "ae": "æ", "OE": "Œ", "oe": "œ",
	"Oslash": "Ø", "oslash": "ø", "Lslash": "Ł", "lslash": "ł",
	"Eth": "Ð", "eth": "ð", "Thorn": "Þ", "thorn": "þ",
	"dotlessi": "ı", "germandbls": "ß",
}

// accentMarks maps glyph-name suffixes to combining marks, so names such as
// "eacute" or "Scaron" compose to a single code point.
var accentMarks = []struct {
	suffix string
	mark   rune
}{
	{"circumflex", '\u0302'},
	{"hungarumlaut", '\u030B'},
	{"commaaccent", '\u0326'},
	{"dotaccent", '\u0307'},
	{"dieresis", '\u0308'},
	{"cedilla", '\u0327'},
	{"macron", '\u0304'},
	{"ogonek", '\u0328'},
	{"acute", '\u0301'},
	{"grave", '\u0300'},
	{"tilde", '\u0303'},
	{"caron", '\u030C'},
	{"breve", '\u0306'},
	{"ring", '\u030A'},
}

// GlyphText returns the text for a glyph name. It understands the common
// Latin names, accented letters, uniXXXX and uXXXX[XX] forms, ligature names
// joined with underscores and suffixed variants such as "a.sc".
func GlyphText(name string) (string, bool) {
	if s, ok := glyphNames[name]; ok {
		return s, true
	}
	if i := strings.IndexByte(name, '.'); i > 0 {
		return GlyphText(name[:i])
	}
	if strings.Contains(name, "_") {
		var b strings.Builder
		for _, part := range strings.Split(name, "_") {
			s, ok := GlyphText(part)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	if s, ok := uniName(name); ok {
		return s, true
	}
	if len(name) == 1 && isASCIILetter(name[0]) {
		return name, true
	}
	for _, a := range accentMarks {
		base, ok := strings.CutSuffix(name, a.suffix)
		if !ok || len(base) != 1 || !isASCIILetter(base[0]) {
			continue
		}
		composed := norm.NFC.String(base + string(a.mark))
		if utf8.RuneCountInString(composed) == 1 {
			return composed, true
		}
	}
	return "", false
}

func uniName(name string) (string, bool) {
	switch {
	case strings.HasPrefix(name, "uni") && len(name) >= 7 && (len(name)-3)%4 == 0:
		var b strings.Builder
		for i := 3; i < len(name); i += 4 {
			v, err := strconv.ParseUint(name[i:i+4], 16, 16)
			if err != nil {
				return "", false
			}
			b.WriteRune(rune(v))
		}
		return b.String(), true
	case strings.HasPrefix(name, "u") && len(name) >= 5 && len(name) <= 7:
		v, err := strconv.ParseUint(name[1:], 16, 32)
		if err != nil || !utf8.ValidRune(rune(v)) {
			return "", false
		}
		return string(rune(v)), true
	}
	return "", false
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
