package font

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tsawler/pdftext/core"
)

// CMap maps character codes to Unicode text (ToUnicode CMaps) or to CIDs
// (encoding CMaps of composite fonts). Codespace ranges decide how many
// bytes each code occupies.
type CMap struct {
	Name string

	codespaces []codespace
	unicode    map[uint32]string
	cids       map[uint32]uint32
	cidRanges  []cidRange
	identity   bool
	vertical   bool
}

type codespace struct {
	n      int
	lo, hi []byte
}

type cidRange struct {
	lo, hi uint32
	cid    uint32
}

// maxRangeExpansion bounds how many entries one bfrange may add.
const maxRangeExpansion = 1 << 16

// IdentityCMap returns the predefined Identity-H or Identity-V CMap: two
// byte codes whose CID equals the code.
func IdentityCMap(vertical bool) *CMap {
	name := "Identity-H"
	if vertical {
		name = "Identity-V"
	}
	return &CMap{
		Name:       name,
		codespaces: []codespace{{n: 2, lo: []byte{0, 0}, hi: []byte{0xff, 0xff}}},
		identity:   true,
		vertical:   vertical,
	}
}

// ParseCMap parses a CMap program.
func ParseCMap(data []byte) (*CMap, error) {
	cm := &CMap{unicode: make(map[uint32]string), cids: make(map[uint32]uint32)}
	l := core.NewLexer(bytes.NewReader(data))

	var prev []*core.Token
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, fmt.Errorf("cmap: %w", err)
		}
		if tok.Type == core.TokenEOF {
			break
		}
		if tok.Type == core.TokenComment {
			continue
		}
		if tok.Type != core.TokenKeyword {
			prev = append(prev, tok)
			if len(prev) > 2 {
				prev = prev[1:]
			}
			continue
		}

		switch string(tok.Value) {
		case "begincodespacerange":
			err = cm.readSection(l, "endcodespacerange", 2, func(args []*core.Token) {
				lo, hi := hexBytes(args[0]), hexBytes(args[1])
				if len(lo) > 0 && len(lo) == len(hi) && len(lo) <= 4 {
					cm.codespaces = append(cm.codespaces, codespace{n: len(lo), lo: lo, hi: hi})
				}
			})
		case "beginbfchar":
			err = cm.readSection(l, "endbfchar", 2, func(args []*core.Token) {
				cm.unicode[codeValue(args[0])] = destination(args[1], 0)
			})
		case "beginbfrange":
			err = cm.readBfRange(l)
		case "begincidchar":
			err = cm.readSection(l, "endcidchar", 2, func(args []*core.Token) {
				if cid, err := strconv.ParseUint(string(args[1].Value), 10, 32); err == nil {
					cm.cids[codeValue(args[0])] = uint32(cid)
				}
			})
		case "begincidrange":
			err = cm.readSection(l, "endcidrange", 3, func(args []*core.Token) {
				if cid, err := strconv.ParseUint(string(args[2].Value), 10, 32); err == nil {
					cm.cidRanges = append(cm.cidRanges, cidRange{lo: codeValue(args[0]), hi: codeValue(args[1]), cid: uint32(cid)})
				}
			})
		case "def":
			if len(prev) == 2 && prev[0].Type == core.TokenName {
				switch string(prev[0].Value) {
				case "WMode":
					cm.vertical = string(prev[1].Value) == "1"
				case "CMapName":
					if prev[1].Type == core.TokenName {
						cm.Name = string(prev[1].Value)
					}
				}
			}
		}
		if err != nil {
			return nil, err
		}
		prev = prev[:0]
	}
	return cm, nil
}

// readSection collects groups of n operand tokens until the end keyword.
func (cm *CMap) readSection(l *core.Lexer, end string, n int, fn func([]*core.Token)) error {
	args := make([]*core.Token, 0, n)
	for {
		tok, err := l.NextToken()
		if err != nil {
			return fmt.Errorf("cmap: %w", err)
		}
		switch {
		case tok.Type == core.TokenEOF:
			return nil
		case tok.Type == core.TokenKeyword && string(tok.Value) == end:
			return nil
		case tok.Type == core.TokenComment:
			continue
		}
		args = append(args, tok)
		if len(args) == n {
			fn(args)
			args = args[:0]
		}
	}
}

// readBfRange handles both "<lo> <hi> <dst>" and "<lo> <hi> [<d1> <d2> ...]".
func (cm *CMap) readBfRange(l *core.Lexer) error {
	for {
		lo, err := l.NextToken()
		if err != nil {
			return fmt.Errorf("cmap: %w", err)
		}
		if lo.Type == core.TokenEOF || (lo.Type == core.TokenKeyword && string(lo.Value) == "endbfrange") {
			return nil
		}
		hi, err := l.NextToken()
		if err != nil {
			return fmt.Errorf("cmap: %w", err)
		}
		dst, err := l.NextToken()
		if err != nil {
			return fmt.Errorf("cmap: %w", err)
		}
		start, stop := codeValue(lo), codeValue(hi)
		if stop < start || stop-start >= maxRangeExpansion {
			continue
		}

		if dst.Type == core.TokenArrayStart {
			code := start
			for {
				tok, err := l.NextToken()
				if err != nil {
					return fmt.Errorf("cmap: %w", err)
				}
				if tok.Type == core.TokenArrayEnd || tok.Type == core.TokenEOF {
					break
				}
				if code <= stop {
					cm.unicode[code] = destination(tok, 0)
				}
				code++
			}
			continue
		}
		for code := start; code <= stop; code++ {
			cm.unicode[code] = destination(dst, code-start)
		}
	}
}

// destination decodes a bfchar/bfrange target. Hex targets are UTF-16BE and
// offset is added to their last code unit; name targets are glyph names.
func destination(tok *core.Token, offset uint32) string {
	switch tok.Type {
	case core.TokenName:
		s, _ := GlyphText(string(tok.Value))
		return s
	case core.TokenHexString:
		b := hexBytes(tok)
		if len(b) == 1 {
			return string(rune(uint32(b[0]) + offset))
		}
		if offset > 0 && len(b) >= 2 {
			unit := uint32(b[len(b)-2])<<8 | uint32(b[len(b)-1])
			unit += offset
			b[len(b)-2], b[len(b)-1] = byte(unit>>8), byte(unit)
		}
		return DecodeUTF16BE(b)
	case core.TokenString:
		return string(tok.Value)
	}
	return ""
}

func hexBytes(tok *core.Token) []byte {
	if tok.Type != core.TokenHexString {
		return tok.Value
	}
	digits := tok.Value
	out := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		v := hexNibble(d)
		if i%2 == 0 {
			out[i/2] = v << 4
		} else {
			out[i/2] |= v
		}
	}
	return out
}

func hexNibble(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}

func codeValue(tok *core.Token) uint32 {
	var v uint32
	for _, c := range hexBytes(tok) {
		v = v<<8 | uint32(c)
	}
	return v
}

// Unicode returns the text mapped to code.
func (cm *CMap) Unicode(code uint32) (string, bool) {
	s, ok := cm.unicode[code]
	return s, ok
}

// Len returns the number of code-to-text mappings.
func (cm *CMap) Len() int { return len(cm.unicode) }

// CodeFor returns a code whose text is s.
func (cm *CMap) CodeFor(s string) (uint32, bool) {
	for code, t := range cm.unicode {
		if t == s {
			return code, true
		}
	}
	return 0, false
}

// CID returns the CID for code. Unmapped codes give CID 0 except in the
// identity CMaps.
func (cm *CMap) CID(code uint32) uint32 {
	if cm.identity {
		return code
	}
	if cid, ok := cm.cids[code]; ok {
		return cid
	}
	for _, r := range cm.cidRanges {
		if code >= r.lo && code <= r.hi {
			return r.cid + code - r.lo
		}
	}
	return 0
}

// Vertical reports whether the CMap selects vertical writing.
func (cm *CMap) Vertical() bool { return cm.vertical }

// HasCodespace reports whether the CMap declares codespace ranges.
func (cm *CMap) HasCodespace() bool { return len(cm.codespaces) > 0 }

// NextCode reads the code at the start of data and returns it with its
// length in bytes. Bytes that match no codespace range are consumed using
// the shortest declared code length; without codespace ranges codes are
// one byte.
func (cm *CMap) NextCode(data []byte) (uint32, int) {
	if len(data) == 0 {
		return 0, 0
	}
	for n := 1; n <= 4 && n <= len(data); n++ {
		for _, cs := range cm.codespaces {
			if cs.n == n && cs.contains(data[:n]) {
				return bytesValue(data[:n]), n
			}
		}
	}
	shortest := 0
	for _, cs := range cm.codespaces {
		if shortest == 0 || cs.n < shortest {
			shortest = cs.n
		}
	}
	if shortest == 0 {
		shortest = 1
	}
	if shortest > len(data) {
		shortest = len(data)
	}
	return bytesValue(data[:shortest]), shortest
}

func (cs codespace) contains(b []byte) bool {
	for i, c := range b {
		if c < cs.lo[i] || c > cs.hi[i] {
			return false
		}
	}
	return true
}

func bytesValue(b []byte) uint32 {
	var v uint32
	for _, c := range b {
		v = v<<8 | uint32(c)
	}
	return v
}
