package text

import (
	"golang.org/x/text/unicode/bidi"
)

// Direction is the writing direction of a run of text.
type Direction int

const (
	// LTR is left-to-right text such as Latin, Cyrillic or CJK.
	LTR Direction = iota
	// RTL is right-to-left text such as Arabic or Hebrew.
	RTL
	// Neutral covers digits, punctuation and white space.
	Neutral
)

// String returns "LTR", "RTL" or "Neutral".
func (d Direction) String() string {
	switch d {
	case LTR:
		return "LTR"
	case RTL:
		return "RTL"
	case Neutral:
		return "Neutral"
	default:
		return "Unknown"
	}
}

// DetectDirection returns the direction held by most strong characters in
// s, or Neutral when it has none. Ties go to LTR.
func DetectDirection(s string) Direction {
	var ltr, rtl int
	for _, r := range s {
		switch GetCharDirection(r) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	switch {
	case ltr == 0 && rtl == 0:
		return Neutral
	case rtl > ltr:
		return RTL
	}
	return LTR
}

// GetCharDirection returns the bidi direction of a single rune using its
// Unicode bidi class.
func GetCharDirection(r rune) Direction {
	props, _ := bidi.LookupRune(r)
	switch props.Class() {
	case bidi.L:
		return LTR
	case bidi.R, bidi.AL:
		return RTL
	}
	return Neutral
}

// lineDirection returns the dominant direction of a set of strings,
// defaulting to LTR.
func lineDirection(parts []string) Direction {
	var ltr, rtl int
	for _, p := range parts {
		switch DetectDirection(p) {
		case LTR:
			ltr++
		case RTL:
			rtl++
		}
	}
	if rtl > ltr {
		return RTL
	}
	return LTR
}
