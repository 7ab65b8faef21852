package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	keywordStream    = []byte("stream")
	keywordEndstream = []byte("endstream")
)

// Parser builds objects from the tokens of a Lexer. It keeps two tokens of
// lookahead so "num gen R" references can be recognised.
type Parser struct {
	lexer    *Lexer
	cur      *Token
	peek     *Token
	resolver Resolver
	err      error
}

// NewParser creates a parser reading from r.
func NewParser(r io.Reader) *Parser {
	return newParserFromLexer(NewLexer(r))
}

func newParserFromLexer(l *Lexer) *Parser {
	p := &Parser{lexer: l}
	p.advance()
	p.advance()
	return p
}

// SetResolver installs the resolver used for indirect /Length values.
func (p *Parser) SetResolver(r Resolver) {
	p.resolver = r
}

// advance shifts the lookahead. When the new current token is the stream
// keyword the lexer is left positioned at the binary data.
func (p *Parser) advance() {
	p.cur = p.peek
	if p.cur != nil && p.cur.Type == TokenKeyword && bytes.Equal(p.cur.Value, keywordStream) {
		p.peek = nil
		return
	}
	tok, err := p.lexer.NextToken()
	if err != nil {
		p.err = err
		tok = &Token{Type: TokenEOF, Pos: p.lexer.Position()}
	}
	p.peek = tok
}

func (p *Parser) skipComments() {
	for p.cur != nil && p.cur.Type == TokenComment {
		p.advance()
	}
}

func (p *Parser) isKeyword(kw string) bool {
	return p.cur != nil && p.cur.Type == TokenKeyword && string(p.cur.Value) == kw
}

// ParseObject parses the next direct object. It returns io.EOF at the end
// of input.
func (p *Parser) ParseObject() (Object, error) {
	p.skipComments()
	if p.cur == nil {
		return nil, io.ErrUnexpectedEOF
	}

	tok := p.cur
	switch tok.Type {
	case TokenEOF:
		if p.err != nil {
			return nil, p.err
		}
		return nil, io.EOF
	case TokenInteger:
		return p.parseInteger()
	case TokenReal:
		p.advance()
		return parseReal(tok.Value)
	case TokenString:
		p.advance()
		return String(tok.Value), nil
	case TokenHexString:
		p.advance()
		return String(decodeHex(tok.Value)), nil
	case TokenName:
		p.advance()
		return Name(tok.Value), nil
	case TokenArrayStart:
		return p.parseArray()
	case TokenDictStart:
		return p.parseDict()
	case TokenKeyword:
		p.advance()
		switch string(tok.Value) {
		case "null":
			return Null{}, nil
		case "true":
			return Bool(true), nil
		case "false":
			return Bool(false), nil
		}
		return nil, fmt.Errorf("unexpected keyword %q at %d", tok.Value, tok.Pos)
	}
	return nil, fmt.Errorf("unexpected token %v at %d", tok.Type, tok.Pos)
}

// parseInteger handles a lone integer or the first half of "num gen R".
func (p *Parser) parseInteger() (Object, error) {
	first, err := strconv.ParseInt(string(p.cur.Value), 10, 64)
	if err != nil {
		// Malformed integers such as "-" or "+" read as zero.
		p.advance()
		return Int(0), nil
	}
	if p.peek == nil || p.peek.Type != TokenInteger {
		p.advance()
		return Int(first), nil
	}

	p.advance() // now at generation candidate
	if p.peek != nil && p.peek.Type == TokenIndirectRef {
		gen, err := strconv.ParseInt(string(p.cur.Value), 10, 64)
		if err == nil {
			p.advance()
			p.advance()
			return IndirectRef{Number: int(first), Generation: int(gen)}, nil
		}
	}
	// Leave the second integer as the current token.
	return Int(first), nil
}

func parseReal(v []byte) (Object, error) {
	s := string(v)
	if s == "." || s == "-." || s == "+." || s == "-" || s == "+" {
		return Real(0), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid real %q: %w", s, err)
	}
	return Real(f), nil
}

// decodeHex converts hex digits to bytes; an odd final digit is padded
// with zero.
func decodeHex(digits []byte) []byte {
	out := make([]byte, (len(digits)+1)/2)
	for i, d := range digits {
		if i%2 == 0 {
			out[i/2] = hexValue(d) << 4
		} else {
			out[i/2] |= hexValue(d)
		}
	}
	return out
}

func (p *Parser) parseArray() (Object, error) {
	p.advance() // [
	arr := Array{}
	for {
		p.skipComments()
		if p.cur == nil || p.cur.Type == TokenEOF {
			return nil, fmt.Errorf("unterminated array: %w", io.ErrUnexpectedEOF)
		}
		if p.cur.Type == TokenArrayEnd {
			p.advance()
			return arr, nil
		}
		obj, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", len(arr), err)
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) parseDict() (Object, error) {
	p.advance() // <<
	dict := Dict{}
	for {
		p.skipComments()
		if p.cur == nil || p.cur.Type == TokenEOF {
			return nil, fmt.Errorf("unterminated dictionary: %w", io.ErrUnexpectedEOF)
		}
		if p.cur.Type == TokenDictEnd {
			p.advance()
			return dict, nil
		}
		if p.cur.Type != TokenName {
			return nil, fmt.Errorf("expected name for dictionary key, got %q at %d", p.cur.Value, p.cur.Pos)
		}
		key := string(p.cur.Value)
		p.advance()

		if p.cur != nil && p.cur.Type == TokenDictEnd {
			continue
		}
		value, err := p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("dictionary value for /%s: %w", key, err)
		}
		if _, isNull := value.(Null); !isNull {
			dict[key] = value
		}
	}
}

// ParseIndirectObject parses "num gen obj <object> endobj", including
// stream objects.
func (p *Parser) ParseIndirectObject() (*IndirectObject, error) {
	p.skipComments()
	if p.cur == nil || p.cur.Type != TokenInteger {
		return nil, errors.New("expected object number")
	}
	num, err := strconv.Atoi(string(p.cur.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid object number: %w", err)
	}
	p.advance()

	if p.cur == nil || p.cur.Type != TokenInteger {
		return nil, errors.New("expected generation number")
	}
	gen, err := strconv.Atoi(string(p.cur.Value))
	if err != nil {
		return nil, fmt.Errorf("invalid generation number: %w", err)
	}
	p.advance()

	if !p.isKeyword("obj") {
		return nil, fmt.Errorf("expected 'obj' for object %d %d", num, gen)
	}
	p.advance()

	ref := IndirectRef{Number: num, Generation: gen}

	var obj Object
	if p.isKeyword("endobj") {
		obj = Null{}
	} else {
		obj, err = p.ParseObject()
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
	}

	if p.isKeyword("stream") {
		dict, ok := obj.(Dict)
		if !ok {
			return nil, fmt.Errorf("object %s: stream keyword after %T", ref, obj)
		}
		s, err := p.parseStream(dict)
		if err != nil {
			return nil, fmt.Errorf("object %s: %w", ref, err)
		}
		obj = s
	}

	// A missing endobj is tolerated; the object is already complete.
	if p.isKeyword("endobj") {
		p.advance()
	}
	return &IndirectObject{Ref: ref, Object: obj}, nil
}

// streamLength returns the declared /Length or -1 when it is missing or
// cannot be resolved.
func (p *Parser) streamLength(dict Dict) int {
	var v Object = dict.Get("Length")
	if ref, ok := v.(IndirectRef); ok {
		if p.resolver == nil {
			return -1
		}
		resolved, err := p.resolver.Resolve(ref)
		if err != nil {
			return -1
		}
		v = resolved
	}
	n, ok := v.(Int)
	if !ok || n < 0 {
		return -1
	}
	return int(n)
}

// parseStream reads the data following the stream keyword. When /Length is
// unusable or wrong the data is recovered by scanning for endstream.
func (p *Parser) parseStream(dict Dict) (*Stream, error) {
	if err := p.lexer.SkipStreamEOL(); err != nil {
		return nil, fmt.Errorf("stream data: %w", err)
	}

	var data []byte
	if length := p.streamLength(dict); length >= 0 {
		d, err := p.lexer.ReadBytes(length)
		if err != nil {
			return nil, fmt.Errorf("stream data: %w", err)
		}
		data = d
		if !p.atEndstream() {
			rest, err := p.lexer.ReadUntil(keywordEndstream)
			if err != nil {
				return nil, fmt.Errorf("stream data: missing endstream: %w", err)
			}
			data = trimEOL(append(data, rest...))
		} else {
			p.lexer.SkipBytes(len(keywordEndstream))
		}
	} else {
		d, err := p.lexer.ReadUntil(keywordEndstream)
		if err != nil {
			return nil, fmt.Errorf("stream data: missing endstream: %w", err)
		}
		data = trimEOL(d)
	}

	// Restart lookahead after endstream.
	p.peek = nil
	p.advance()
	p.advance()
	return &Stream{Dict: dict, Data: data}, nil
}

// atEndstream skips whitespace and reports whether endstream follows.
func (p *Parser) atEndstream() bool {
	p.lexer.skipWhitespace()
	for i, c := range keywordEndstream {
		b, ok := p.lexer.peekAt(i)
		if !ok || b != c {
			return false
		}
	}
	return true
}

func trimEOL(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\n' {
		b = b[:n-1]
	}
	if n := len(b); n > 0 && b[n-1] == '\r' {
		b = b[:n-1]
	}
	return b
}
