package contentstream

import (
	"bytes"
	"strconv"

	"github.com/tsawler/pdftext/core"
)

// Operation is one operator with its operands.
type Operation struct {
	Operator string
	Operands []core.Object
	Inline   *InlineImage // set for BI operations only
}

// InlineImage is an image embedded in the content stream. Dict uses the
// expanded key names.
type InlineImage struct {
	Dict core.Dict
	Data []byte
}

// Stream returns the image as a stream so the usual filters can decode it.
func (img *InlineImage) Stream() *core.Stream {
	return &core.Stream{Dict: img.Dict, Data: img.Data}
}

// Parser tokenizes one content stream. A Parser is not safe for concurrent
// use; create one per stream.
type Parser struct {
	data     []byte
	pos      int
	operands []core.Object
	skipped  int
}

// NewParser creates a parser for decoded content bytes.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Skipped returns the number of bytes or operands that were dropped as
// malformed during Parse.
func (p *Parser) Skipped() int {
	return p.skipped
}

// Parse returns all operations in order. Operands left over at the end of
// the stream are discarded.
func (p *Parser) Parse() ([]Operation, error) {
	var ops []Operation
	for {
		op, ok := p.Next()
		if !ok {
			return ops, nil
		}
		ops = append(ops, op)
	}
}

// Next returns the next operation, or false at the end of the stream.
func (p *Parser) Next() (Operation, bool) {
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			p.operands = p.operands[:0]
			return Operation{}, false
		}

		c := p.data[p.pos]
		if isRegular(c) && !startsNumber(c) {
			word := p.readRegular()
			switch word {
			case "true":
				p.push(core.Bool(true))
				continue
			case "false":
				p.push(core.Bool(false))
				continue
			case "null":
				p.push(core.Null{})
				continue
			case "BI":
				p.operands = p.operands[:0]
				if img, ok := p.readInlineImage(); ok {
					return Operation{Operator: "BI", Inline: img}, true
				}
				p.skipped++
				continue
			}
			op := Operation{Operator: word, Operands: make([]core.Object, len(p.operands))}
			copy(op.Operands, p.operands)
			p.operands = p.operands[:0]
			return op, true
		}

		if obj, ok := p.readOperand(); ok {
			p.push(obj)
		} else {
			p.skipped++
		}
	}
}

func (p *Parser) push(obj core.Object) {
	p.operands = append(p.operands, obj)
}

// readOperand parses a number, string, name, array or dictionary. Stray
// delimiters are consumed and reported as not ok.
func (p *Parser) readOperand() (core.Object, bool) {
	c := p.data[p.pos]
	switch {
	case startsNumber(c):
		return p.readNumber(), true
	case c == '(':
		return p.readString()
	case c == '/':
		return p.readName(), true
	case c == '[':
		return p.readArray()
	case c == '<':
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
			return p.readDict()
		}
		return p.readHexString()
	}
	p.pos++
	return nil, false
}

// readValue reads an operand or a true/false/null keyword inside arrays
// and dictionaries.
func (p *Parser) readValue() (core.Object, bool) {
	c := p.data[p.pos]
	if isRegular(c) && !startsNumber(c) {
		switch p.readRegular() {
		case "true":
			return core.Bool(true), true
		case "false":
			return core.Bool(false), true
		case "null":
			return core.Null{}, true
		}
		return nil, false
	}
	return p.readOperand()
}

func (p *Parser) readRegular() string {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// readNumber reads an integer or real. Malformed numbers such as "--1" or
// "1.2.3" read as zero or as the longest valid prefix.
func (p *Parser) readNumber() core.Object {
	start := p.pos
	isReal := false
	if c := p.data[p.pos]; c == '+' || c == '-' {
		p.pos++
	}
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '.' {
			isReal = true
		} else if c < '0' || c > '9' {
			if c == '-' || c == '+' {
				// "0.00-5" style garbage; swallow it
				p.pos++
				continue
			}
			break
		}
		p.pos++
	}
	s := string(p.data[start:p.pos])
	if !isReal {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return core.Int(n)
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return core.Real(f)
	}
	return core.Real(parsePrefix(s))
}

func parsePrefix(s string) float64 {
	for i := len(s) - 1; i > 0; i-- {
		if f, err := strconv.ParseFloat(s[:i], 64); err == nil {
			return f
		}
	}
	return 0
}

func (p *Parser) readString() (core.Object, bool) {
	p.pos++ // (
	var buf bytes.Buffer
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch c {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return core.String(buf.Bytes()), true
			}
		case '\\':
			p.readEscape(&buf)
			continue
		}
		buf.WriteByte(c)
	}
	// Unterminated strings keep what was read.
	return core.String(buf.Bytes()), true
}

func (p *Parser) readEscape(buf *bytes.Buffer) {
	if p.pos >= len(p.data) {
		return
	}
	c := p.data[p.pos]
	p.pos++
	switch c {
	case 'n':
		buf.WriteByte('\n')
	case 'r':
		buf.WriteByte('\r')
	case 't':
		buf.WriteByte('\t')
	case 'b':
		buf.WriteByte('\b')
	case 'f':
		buf.WriteByte('\f')
	case '\r':
		if p.pos < len(p.data) && p.data[p.pos] == '\n' {
			p.pos++
		}
	case '\n':
	case '0', '1', '2', '3', '4', '5', '6', '7':
		v := int(c - '0')
		for i := 0; i < 2 && p.pos < len(p.data); i++ {
			d := p.data[p.pos]
			if d < '0' || d > '7' {
				break
			}
			v = v*8 + int(d-'0')
			p.pos++
		}
		buf.WriteByte(byte(v))
	default:
		buf.WriteByte(c)
	}
}

func (p *Parser) readHexString() (core.Object, bool) {
	p.pos++ // <
	var out []byte
	var hi byte
	odd := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			break
		}
		if !isHexDigit(c) {
			continue
		}
		if odd {
			out = append(out, hi<<4|hexValue(c))
		} else {
			hi = hexValue(c)
		}
		odd = !odd
	}
	if odd {
		out = append(out, hi<<4)
	}
	return core.String(out), true
}

func (p *Parser) readName() core.Object {
	p.pos++ // /
	var buf bytes.Buffer
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		c := p.data[p.pos]
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			buf.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		buf.WriteByte(c)
		p.pos++
	}
	return core.Name(buf.String())
}

func (p *Parser) readArray() (core.Object, bool) {
	p.pos++ // [
	arr := core.Array{}
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return arr, true
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, true
		}
		if obj, ok := p.readValue(); ok {
			arr = append(arr, obj)
		} else {
			p.skipped++
		}
	}
}

func (p *Parser) readDict() (core.Object, bool) {
	p.pos += 2 // <<
	dict := core.Dict{}
	for {
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return dict, true
		}
		if p.data[p.pos] == '>' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, true
		}
		if p.data[p.pos] != '/' {
			p.pos++
			p.skipped++
			continue
		}
		key := p.readName().(core.Name)
		p.skipSpaceAndComments()
		if p.pos >= len(p.data) {
			return dict, true
		}
		if v, ok := p.readValue(); ok {
			dict[string(key)] = v
		}
	}
}

func (p *Parser) skipSpaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		return
	}
}

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isWhitespace(c) && !isDelimiter(c)
}

func startsNumber(c byte) bool {
	return (c >= '0' && c <= '9') || c == '-' || c == '+' || c == '.'
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
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
