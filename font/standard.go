package font

import "strings"

// metrics holds the widths of the printable ASCII range for one of the
// standard 14 fonts, plus vertical extents.
type metrics struct {
	ascii    [95]float64 // widths for U+0020 through U+007E
	extra    map[rune]float64
	fallback float64
	ascent   float64
	descent  float64
}

func (m *metrics) width(r rune) (float64, bool) {
	if r >= 0x20 && r <= 0x7e {
		return m.ascii[r-0x20], true
	}
	w, ok := m.extra[r]
	return w, ok
}

func asciiWidths(ws ...float64) [95]float64 {
	var out [95]float64
	copy(out[:], ws)
	return out
}

func monospace(w float64) [95]float64 {
	var out [95]float64
	for i := range out {
		out[i] = w
	}
	return out
}

// Latin extras shared by the proportional faces.
var helveticaExtra = map[rune]float64{
	'’': 222, '‘': 222, '“': 333, '”': 333, '•': 350, '–': 556, '—': 1000,
	'…': 1000, '\u00a0': 278, '€': 556, 'é': 556, 'è': 556, 'à': 556, 'ü': 556,
}

var timesExtra = map[rune]float64{
	'’': 333, '‘': 333, '“': 444, '”': 444, '•': 350, '–': 500, '—': 1000,
	'…': 1000, '\u00a0': 250, '€': 500, 'é': 444, 'è': 444, 'à': 444, 'ü': 500,
}

var (
	helvetica = &metrics{
		ascii: asciiWidths(
			278, 278, 355, 556, 556, 889, 667, 191, 333, 333, 389, 584, 278, 333, 278, 278,
			556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 278, 278, 584, 584, 584, 556,
			1015, 667, 667, 722, 722, 667, 611, 778, 722, 278, 500, 667, 556, 833, 722, 778,
			667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 278, 278, 278, 469, 556,
			333, 556, 556, 500, 556, 556, 278, 556, 556, 222, 222, 500, 222, 833, 556, 556,
			556, 556, 333, 500, 278, 556, 500, 722, 500, 500, 500, 334, 260, 334, 584,
		),
		extra:    helveticaExtra,
		fallback: 556,
		ascent:   718,
		descent:  -207,
	}
	helveticaBold = &metrics{
		ascii: asciiWidths(
			278, 333, 474, 556, 556, 889, 722, 238, 333, 333, 389, 584, 278, 333, 278, 278,
			556, 556, 556, 556, 556, 556, 556, 556, 556, 556, 333, 333, 584, 584, 584, 611,
			975, 722, 722, 722, 722, 667, 611, 778, 722, 278, 556, 722, 611, 833, 722, 778,
			667, 778, 722, 667, 611, 722, 667, 944, 667, 667, 611, 333, 278, 333, 584, 556,
			333, 556, 611, 556, 611, 556, 333, 611, 611, 278, 278, 556, 278, 889, 611, 611,
			611, 611, 389, 556, 333, 611, 556, 778, 556, 556, 500, 389, 280, 389, 584,
		),
		extra:    helveticaExtra,
		fallback: 611,
		ascent:   718,
		descent:  -207,
	}
	timesRoman = &metrics{
		ascii: asciiWidths(
			250, 333, 408, 500, 500, 833, 778, 180, 333, 333, 500, 564, 250, 333, 250, 278,
			500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 278, 278, 564, 564, 564, 444,
			921, 722, 667, 667, 722, 611, 556, 722, 722, 333, 389, 722, 611, 889, 722, 722,
			556, 722, 667, 556, 611, 722, 722, 944, 722, 722, 611, 333, 278, 333, 469, 500,
			333, 444, 500, 444, 500, 444, 333, 500, 500, 278, 278, 500, 278, 778, 500, 500,
			500, 500, 333, 389, 278, 500, 500, 722, 500, 500, 444, 480, 200, 480, 541,
		),
		extra:    timesExtra,
		fallback: 500,
		ascent:   683,
		descent:  -217,
	}
	timesBold = &metrics{
		ascii: asciiWidths(
			250, 333, 555, 500, 500, 1000, 833, 278, 333, 333, 500, 570, 250, 333, 250, 278,
			500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 333, 333, 570, 570, 570, 500,
			930, 722, 667, 722, 722, 667, 611, 778, 778, 389, 500, 778, 667, 944, 722, 778,
			611, 778, 722, 556, 667, 722, 722, 1000, 722, 722, 667, 333, 278, 333, 581, 500,
			333, 500, 556, 444, 556, 444, 333, 500, 556, 278, 333, 556, 278, 833, 556, 500,
			556, 556, 444, 389, 333, 556, 500, 722, 500, 500, 444, 394, 220, 394, 520,
		),
		extra:    timesExtra,
		fallback: 500,
		ascent:   683,
		descent:  -217,
	}
	courier = &metrics{
		ascii:    monospace(600),
		fallback: 600,
		ascent:   629,
		descent:  -157,
	}
	symbol = &metrics{
		ascii:    monospace(500),
		fallback: 500,
		ascent:   1010,
		descent:  -293,
	}
	dingbats = &metrics{
		ascii:    monospace(788),
		fallback: 788,
		ascent:   820,
		descent:  -143,
	}
)

func init() {
	symbol.ascii[0] = 250
	dingbats.ascii[0] = 278
}

// standardMetrics returns the metrics of a standard 14 font, accepting the
// usual aliases such as "Arial" and "TimesNewRoman,Bold".
func standardMetrics(baseFont string) (*metrics, bool) {
	name := stripSubset(baseFont)
	bold := strings.Contains(name, "Bold")
	switch {
	case strings.HasPrefix(name, "Helvetica"), strings.HasPrefix(name, "Arial"):
		if bold {
			return helveticaBold, true
		}
		return helvetica, true
	case strings.HasPrefix(name, "Times"):
		if bold {
			return timesBold, true
		}
		return timesRoman, true
	case strings.HasPrefix(name, "Courier"):
		return courier, true
	case name == "Symbol":
		return symbol, true
	case name == "ZapfDingbats":
		return dingbats, true
	}
	return nil, false
}

// stripSubset removes a six-letter subset tag such as "ABCDEF+".
func stripSubset(name string) string {
	if len(name) > 7 && name[6] == '+' {
		for i := 0; i < 6; i++ {
			if name[i] < 'A' || name[i] > 'Z' {
				return name
			}
		}
		return name[7:]
	}
	return name
}
