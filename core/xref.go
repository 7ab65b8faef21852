package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
)

// ErrNoXRef is returned when no cross-reference information can be found.
var ErrNoXRef = errors.New("cross-reference table not found")

// EntryType distinguishes the three kinds of cross-reference entries.
type EntryType int

const (
	EntryFree EntryType = iota
	EntryInUse
	EntryCompressed
)

// XRefEntry locates one object.
type XRefEntry struct {
	Type       EntryType
	Offset     int64 // byte offset of an in-use object
	Generation int
	StreamNum  int // object stream holding a compressed object
	Index      int // index within that object stream
}

// InUse reports whether the entry refers to a live object.
func (e *XRefEntry) InUse() bool {
	return e.Type != EntryFree
}

// XRefTable maps object numbers to entries.
type XRefTable struct {
	Entries map[int]*XRefEntry
	Trailer Dict
}

// NewXRefTable creates an empty table.
func NewXRefTable() *XRefTable {
	return &XRefTable{Entries: make(map[int]*XRefEntry), Trailer: Dict{}}
}

// Get returns the entry for objNum.
func (x *XRefTable) Get(objNum int) (*XRefEntry, bool) {
	e, ok := x.Entries[objNum]
	return e, ok
}

// Set stores the entry for objNum.
func (x *XRefTable) Set(objNum int, e *XRefEntry) {
	x.Entries[objNum] = e
}

// Size returns the number of entries.
func (x *XRefTable) Size() int {
	return len(x.Entries)
}

// fill adds entries from older that x does not define yet. Trailer keys are
// filled the same way.
func (x *XRefTable) fill(older *XRefTable) {
	for n, e := range older.Entries {
		if _, ok := x.Entries[n]; !ok {
			x.Entries[n] = e
		}
	}
	for k, v := range older.Trailer {
		if !x.Trailer.Has(k) {
			x.Trailer[k] = v
		}
	}
}

// MergeXRefTables merges tables given oldest first; later tables win.
func MergeXRefTables(tables ...*XRefTable) *XRefTable {
	merged := NewXRefTable()
	for i := len(tables) - 1; i >= 0; i-- {
		merged.fill(tables[i])
	}
	return merged
}

// XRefParser reads cross-reference sections from a random-access input.
type XRefParser struct {
	r    io.ReaderAt
	size int64
}

// NewXRefParser creates a parser over size bytes of r.
func NewXRefParser(r io.ReaderAt, size int64) *XRefParser {
	return &XRefParser{r: r, size: size}
}

func (x *XRefParser) sectionAt(offset int64) io.Reader {
	return io.NewSectionReader(x.r, offset, x.size-offset)
}

// FindStartXRef returns the offset recorded after the last startxref
// keyword near the end of the file.
func (x *XRefParser) FindStartXRef() (int64, error) {
	tail := int64(2048)
	if x.size < tail {
		tail = x.size
	}
	buf := make([]byte, tail)
	n, err := x.r.ReadAt(buf, x.size-tail)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to read file tail: %w", err)
	}
	buf = buf[:n]

	idx := bytes.LastIndex(buf, []byte("startxref"))
	if idx < 0 {
		return 0, ErrNoXRef
	}
	fields := bytes.Fields(buf[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, fmt.Errorf("startxref without offset")
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil || offset < 0 || offset >= x.size {
		return 0, fmt.Errorf("invalid startxref offset %q", fields[0])
	}
	return offset, nil
}

// ParseXRef parses the section at offset, which may be a classic table or
// a cross-reference stream. A hybrid file's /XRefStm entries are merged
// under the table's own entries.
func (x *XRefParser) ParseXRef(offset int64) (*XRefTable, error) {
	if offset < 0 || offset >= x.size {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}
	lexer := NewLexer(x.sectionAt(offset))
	tok, err := lexer.NextToken()
	if err != nil {
		return nil, err
	}

	if tok.Type == TokenKeyword && string(tok.Value) == "xref" {
		table, err := x.parseTable(lexer)
		if err != nil {
			return nil, err
		}
		if stmOffset, ok := table.Trailer.GetInt("XRefStm"); ok {
			if stm, err := x.parseStream(int64(stmOffset)); err == nil {
				table.fill(stm)
			}
		}
		return table, nil
	}
	if tok.Type == TokenInteger {
		return x.parseStream(offset)
	}
	return nil, fmt.Errorf("no xref section at offset %d", offset)
}

// parseTable reads subsections after the xref keyword and the trailer.
func (x *XRefParser) parseTable(l *Lexer) (*XRefTable, error) {
	table := NewXRefTable()
	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		switch {
		case tok.Type == TokenKeyword && string(tok.Value) == "trailer":
			obj, err := newParserFromLexer(l).ParseObject()
			if err != nil {
				return nil, fmt.Errorf("failed to parse trailer: %w", err)
			}
			trailer, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is %T, not a dictionary", obj)
			}
			table.Trailer = trailer
			return table, nil
		case tok.Type == TokenInteger:
			first, _ := strconv.Atoi(string(tok.Value))
			countTok, err := l.NextToken()
			if err != nil || countTok.Type != TokenInteger {
				return nil, fmt.Errorf("invalid xref subsection header at %d", tok.Pos)
			}
			count, _ := strconv.Atoi(string(countTok.Value))
			for i := 0; i < count; i++ {
				e, err := readTableEntry(l)
				if err != nil {
					return nil, fmt.Errorf("xref entry %d: %w", first+i, err)
				}
				table.Set(first+i, e)
			}
		case tok.Type == TokenEOF:
			return nil, fmt.Errorf("xref table missing trailer")
		default:
			return nil, fmt.Errorf("unexpected %q in xref table", tok.Value)
		}
	}
}

func readTableEntry(l *Lexer) (*XRefEntry, error) {
	var fields [3]*Token
	for i := range fields {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}
		fields[i] = tok
	}
	if fields[0].Type != TokenInteger || fields[1].Type != TokenInteger || fields[2].Type != TokenKeyword {
		return nil, fmt.Errorf("malformed entry at %d", fields[0].Pos)
	}
	offset, _ := strconv.ParseInt(string(fields[0].Value), 10, 64)
	gen, _ := strconv.Atoi(string(fields[1].Value))

	e := &XRefEntry{Offset: offset, Generation: gen}
	switch string(fields[2].Value) {
	case "n":
		e.Type = EntryInUse
	case "f":
		e.Type = EntryFree
	default:
		return nil, fmt.Errorf("invalid entry flag %q", fields[2].Value)
	}
	return e, nil
}

// parseStream reads a cross-reference stream object at offset.
func (x *XRefParser) parseStream(offset int64) (*XRefTable, error) {
	obj, err := NewParser(x.sectionAt(offset)).ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("failed to parse xref stream: %w", err)
	}
	stream, ok := obj.Object.(*Stream)
	if !ok {
		return nil, fmt.Errorf("object at %d is not a stream", offset)
	}
	if t, _ := stream.Dict.GetName("Type"); t != "XRef" {
		return nil, fmt.Errorf("stream at %d is not an xref stream", offset)
	}
	return DecodeXRefStream(stream)
}

// DecodeXRefStream converts a /Type /XRef stream into a table whose trailer
// is the stream dictionary.
func DecodeXRefStream(stream *Stream) (*XRefTable, error) {
	w, ok := stream.Dict.GetArray("W")
	if !ok || len(w) != 3 {
		return nil, fmt.Errorf("xref stream has invalid /W")
	}
	var widths [3]int
	rowLen := 0
	for i := range widths {
		n, ok := w.GetNumber(i)
		if !ok || n < 0 || n > 8 {
			return nil, fmt.Errorf("xref stream has invalid /W")
		}
		widths[i] = int(n)
		rowLen += int(n)
	}
	if rowLen == 0 {
		return nil, fmt.Errorf("xref stream has zero-width rows")
	}

	size, _ := stream.Dict.GetInt("Size")
	index := []int{0, int(size)}
	if arr, ok := stream.Dict.GetArray("Index"); ok {
		index = index[:0]
		for i := range arr {
			n, _ := arr.GetNumber(i)
			index = append(index, int(n))
		}
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, fmt.Errorf("failed to decode xref stream: %w", err)
	}

	table := NewXRefTable()
	table.Trailer = stream.Dict
	pos := 0
	for i := 0; i+1 < len(index); i += 2 {
		first, count := index[i], index[i+1]
		for j := 0; j < count; j++ {
			if pos+rowLen > len(data) {
				return table, nil
			}
			row := data[pos : pos+rowLen]
			pos += rowLen

			f1 := readBigEndian(row[:widths[0]], 1)
			f2 := readBigEndian(row[widths[0]:widths[0]+widths[1]], 0)
			f3 := readBigEndian(row[widths[0]+widths[1]:], 0)

			var e *XRefEntry
			switch f1 {
			case 0:
				e = &XRefEntry{Type: EntryFree, Offset: f2, Generation: int(f3)}
			case 1:
				e = &XRefEntry{Type: EntryInUse, Offset: f2, Generation: int(f3)}
			case 2:
				e = &XRefEntry{Type: EntryCompressed, StreamNum: int(f2), Index: int(f3)}
			default:
				// Unknown types are treated as references to null.
				continue
			}
			table.Set(first+j, e)
		}
	}
	return table, nil
}

// readBigEndian decodes a big-endian field; empty fields take def.
func readBigEndian(b []byte, def int64) int64 {
	if len(b) == 0 {
		return def
	}
	var v int64
	for _, c := range b {
		v = v<<8 | int64(c)
	}
	return v
}

// ParseAll follows startxref and the /Prev chain and returns the merged
// table, newest entries winning.
func (x *XRefParser) ParseAll() (*XRefTable, error) {
	offset, err := x.FindStartXRef()
	if err != nil {
		return nil, err
	}

	merged := NewXRefTable()
	seen := make(map[int64]bool)
	for !seen[offset] {
		seen[offset] = true
		table, err := x.ParseXRef(offset)
		if err != nil {
			if merged.Size() == 0 {
				return nil, err
			}
			break
		}
		merged.fill(table)

		prev, ok := table.Trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}
	return merged, nil
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\r\n\s])(\d+)\s+(\d+)\s+obj\b`)

// Rebuild scans the whole input for object headers. It is used when the
// cross-reference data is missing or broken. The trailer comes from the last
// trailer keyword, or is synthesised from a catalog object.
func (x *XRefParser) Rebuild() (*XRefTable, error) {
	data := make([]byte, x.size)
	n, err := x.r.ReadAt(data, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	data = data[:n]

	table := NewXRefTable()
	for _, m := range objHeader.FindAllSubmatchIndex(data, -1) {
		num, _ := strconv.Atoi(string(data[m[2]:m[3]]))
		gen, _ := strconv.Atoi(string(data[m[4]:m[5]]))
		table.Set(num, &XRefEntry{Type: EntryInUse, Offset: int64(m[2]), Generation: gen})
	}
	if table.Size() == 0 {
		return nil, ErrNoXRef
	}

	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		obj, err := NewParser(bytes.NewReader(data[idx+len("trailer"):])).ParseObject()
		if err == nil {
			if d, ok := obj.(Dict); ok {
				table.Trailer = d
			}
		}
	}
	if !table.Trailer.Has("Root") {
		for num, e := range table.Entries {
			obj, err := NewParser(bytes.NewReader(data[e.Offset:])).ParseIndirectObject()
			if err != nil {
				continue
			}
			if d, ok := obj.Object.(Dict); ok {
				if t, _ := d.GetName("Type"); t == "Catalog" {
					table.Trailer["Root"] = IndirectRef{Number: num, Generation: e.Generation}
					break
				}
			}
		}
	}
	return table, nil
}
