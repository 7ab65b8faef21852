package core

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// TokenType identifies a lexical token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenWhitespace
	TokenComment
	TokenKeyword     // true, false, null, obj, endobj, stream, operators, ...
	TokenInteger     // 123
	TokenReal        // 3.14
	TokenString      // (hello)
	TokenHexString   // <48656C6C6F>
	TokenName        // /Type
	TokenArrayStart  // [
	TokenArrayEnd    // ]
	TokenDictStart   // <<
	TokenDictEnd     // >>
	TokenIndirectRef // R
)

// Token is one lexical token. For strings Value holds the decoded bytes; for
// hex strings it holds the hex digits.
type Token struct {
	Type  TokenType
	Value []byte
	Pos   int64
}

func (t *Token) String() string {
	return fmt.Sprintf("%d:%q@%d", t.Type, t.Value, t.Pos)
}

const (
	classRegular = iota
	classWhite
	classDelim
)

var charClass [256]uint8

func init() {
	for _, c := range []byte{0, '\t', '\n', '\f', '\r', ' '} {
		charClass[c] = classWhite
	}
	for _, c := range []byte("()<>[]{}/%") {
		charClass[c] = classDelim
	}
}

func isWhitespace(b byte) bool { return charClass[b] == classWhite }
func isDelimiter(b byte) bool  { return charClass[b] == classDelim }
func isRegular(b byte) bool    { return charClass[b] == classRegular }
func isDigit(b byte) bool      { return b >= '0' && b <= '9' }

func isHexDigit(b byte) bool {
	return isDigit(b) || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func hexValue(b byte) byte {
	switch {
	case isDigit(b):
		return b - '0'
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10
	}
	return 0
}

// Lexer splits PDF syntax into tokens.
type Lexer struct {
	r   *bufio.Reader
	pos int64
}

// NewLexer creates a lexer reading from r.
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{r: bufio.NewReader(r)}
}

// Position returns the number of bytes consumed so far.
func (l *Lexer) Position() int64 {
	return l.pos
}

// ReadByte consumes one byte.
func (l *Lexer) ReadByte() (byte, error) {
	b, err := l.r.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

// Peek returns the next byte without consuming it.
func (l *Lexer) Peek() (byte, error) {
	p, err := l.r.Peek(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (l *Lexer) peekAt(i int) (byte, bool) {
	p, err := l.r.Peek(i + 1)
	if err != nil || len(p) <= i {
		return 0, false
	}
	return p[i], true
}

func (l *Lexer) skipWhitespace() {
	for {
		b, err := l.Peek()
		if err != nil || !isWhitespace(b) {
			return
		}
		l.ReadByte()
	}
}

// NextToken returns the next non-whitespace token. At end of input it
// returns a TokenEOF token and a nil error. Bytes that cannot start any
// token are returned as single-byte keywords so callers can decide whether
// to skip them.
func (l *Lexer) NextToken() (*Token, error) {
	l.skipWhitespace()

	start := l.pos
	b, err := l.Peek()
	if errors.Is(err, io.EOF) {
		return &Token{Type: TokenEOF, Pos: start}, nil
	}
	if err != nil {
		return nil, err
	}

	switch b {
	case '%':
		return l.readComment()
	case '(':
		return l.readString()
	case '/':
		return l.readName()
	case '[':
		l.ReadByte()
		return &Token{Type: TokenArrayStart, Value: []byte{'['}, Pos: start}, nil
	case ']':
		l.ReadByte()
		return &Token{Type: TokenArrayEnd, Value: []byte{']'}, Pos: start}, nil
	case '<':
		if next, ok := l.peekAt(1); ok && next == '<' {
			l.ReadByte()
			l.ReadByte()
			return &Token{Type: TokenDictStart, Value: []byte("<<"), Pos: start}, nil
		}
		return l.readHexString()
	case '>':
		l.ReadByte()
		if next, ok := l.peekAt(0); ok && next == '>' {
			l.ReadByte()
			return &Token{Type: TokenDictEnd, Value: []byte(">>"), Pos: start}, nil
		}
		return &Token{Type: TokenKeyword, Value: []byte{'>'}, Pos: start}, nil
	case ')', '{', '}':
		l.ReadByte()
		return &Token{Type: TokenKeyword, Value: []byte{b}, Pos: start}, nil
	}

	if isDigit(b) || b == '-' || b == '+' || b == '.' {
		return l.readNumber()
	}
	return l.readKeyword()
}

func (l *Lexer) readComment() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	for {
		b, err := l.Peek()
		if err != nil || b == '\r' || b == '\n' {
			break
		}
		l.ReadByte()
		buf.WriteByte(b)
	}
	return &Token{Type: TokenComment, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readString() (*Token, error) {
	start := l.pos
	l.ReadByte() // (

	var buf bytes.Buffer
	depth := 1
	for {
		b, err := l.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated string at %d: %w", start, err)
		}
		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return &Token{Type: TokenString, Value: buf.Bytes(), Pos: start}, nil
			}
		case '\r':
			// An unescaped EOL is read as a single LF.
			if next, ok := l.peekAt(0); ok && next == '\n' {
				l.ReadByte()
			}
			b = '\n'
		case '\\':
			if err := l.readEscape(&buf); err != nil {
				return nil, fmt.Errorf("unterminated string at %d: %w", start, err)
			}
			continue
		}
		buf.WriteByte(b)
	}
}

func (l *Lexer) readEscape(buf *bytes.Buffer) error {
	c, err := l.ReadByte()
	if err != nil {
		return err
	}
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
		if next, ok := l.peekAt(0); ok && next == '\n' {
			l.ReadByte()
		}
	case '\n':
	default:
		if c < '0' || c > '7' {
			buf.WriteByte(c)
			return nil
		}
		v := c - '0'
		for i := 0; i < 2; i++ {
			d, ok := l.peekAt(0)
			if !ok || d < '0' || d > '7' {
				break
			}
			l.ReadByte()
			v = v<<3 | (d - '0')
		}
		buf.WriteByte(v)
	}
	return nil
}

func (l *Lexer) readHexString() (*Token, error) {
	start := l.pos
	l.ReadByte() // <

	var buf bytes.Buffer
	for {
		b, err := l.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("unterminated hex string at %d: %w", start, err)
		}
		if b == '>' {
			break
		}
		if isHexDigit(b) {
			buf.WriteByte(b)
		} else if !isWhitespace(b) {
			return nil, fmt.Errorf("invalid hex digit %q at %d", b, l.pos-1)
		}
	}
	return &Token{Type: TokenHexString, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readName() (*Token, error) {
	start := l.pos
	l.ReadByte() // /

	var buf bytes.Buffer
	for {
		b, err := l.Peek()
		if err != nil || !isRegular(b) {
			break
		}
		l.ReadByte()
		if b == '#' {
			h1, ok1 := l.peekAt(0)
			h2, ok2 := l.peekAt(1)
			if ok1 && ok2 && isHexDigit(h1) && isHexDigit(h2) {
				l.ReadByte()
				l.ReadByte()
				buf.WriteByte(hexValue(h1)<<4 | hexValue(h2))
				continue
			}
		}
		buf.WriteByte(b)
	}
	return &Token{Type: TokenName, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readNumber() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	isReal := false
scan:
	for {
		b, err := l.Peek()
		if err != nil {
			break
		}
		switch {
		case isDigit(b):
		case b == '.' && !isReal:
			isReal = true
		case (b == '-' || b == '+') && buf.Len() == 0:
		default:
			break scan
		}
		l.ReadByte()
		buf.WriteByte(b)
	}

	typ := TokenInteger
	if isReal {
		typ = TokenReal
	}
	return &Token{Type: typ, Value: buf.Bytes(), Pos: start}, nil
}

func (l *Lexer) readKeyword() (*Token, error) {
	start := l.pos
	var buf bytes.Buffer
	for {
		b, err := l.Peek()
		if err != nil || !isRegular(b) {
			break
		}
		l.ReadByte()
		buf.WriteByte(b)
	}
	if buf.Len() == 1 && buf.Bytes()[0] == 'R' {
		return &Token{Type: TokenIndirectRef, Value: buf.Bytes(), Pos: start}, nil
	}
	return &Token{Type: TokenKeyword, Value: buf.Bytes(), Pos: start}, nil
}

// SkipStreamEOL consumes the end-of-line marker that follows the stream
// keyword: CRLF or LF, and leniently a lone CR or trailing spaces.
func (l *Lexer) SkipStreamEOL() error {
	for {
		b, err := l.Peek()
		if err != nil {
			return err
		}
		if b != ' ' && b != '\t' {
			break
		}
		l.ReadByte()
	}
	b, err := l.Peek()
	if err != nil {
		return err
	}
	switch b {
	case '\r':
		l.ReadByte()
		if next, ok := l.peekAt(0); ok && next == '\n' {
			l.ReadByte()
		}
	case '\n':
		l.ReadByte()
	}
	return nil
}

// ReadBytes reads exactly n bytes of binary data.
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	data := make([]byte, n)
	read, err := io.ReadFull(l.r, data)
	l.pos += int64(read)
	if err != nil {
		return data[:read], fmt.Errorf("expected %d bytes, got %d: %w", n, read, err)
	}
	return data, nil
}

// ReadUntil reads bytes up to (not including) marker and consumes the marker.
// It returns io.ErrUnexpectedEOF if the marker never appears.
func (l *Lexer) ReadUntil(marker []byte) ([]byte, error) {
	var buf bytes.Buffer
	for {
		b, err := l.ReadByte()
		if err != nil {
			return buf.Bytes(), io.ErrUnexpectedEOF
		}
		buf.WriteByte(b)
		if bytes.HasSuffix(buf.Bytes(), marker) {
			return buf.Bytes()[:buf.Len()-len(marker)], nil
		}
	}
}

// SkipBytes discards n bytes.
func (l *Lexer) SkipBytes(n int) error {
	skipped, err := l.r.Discard(n)
	l.pos += int64(skipped)
	return err
}
