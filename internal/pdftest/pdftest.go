// Package pdftest builds small PDF files in memory for tests.
package pdftest

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"strings"
)

// Builder assembles numbered objects into a file with a valid
// cross-reference table. Object 1 is expected to be the catalog.
type Builder struct {
	Version string
	objects []string
	trailer []string
}

// New returns a builder for a PDF 1.7 file.
func New() *Builder {
	return &Builder{Version: "1.7"}
}

// Add appends an object body and returns its number.
func (b *Builder) Add(body string) int {
	b.objects = append(b.objects, body)
	return len(b.objects)
}

// Set replaces the body of object n, growing the list as needed.
func (b *Builder) Set(n int, body string) {
	for len(b.objects) < n {
		b.objects = append(b.objects, "null")
	}
	b.objects[n-1] = body
}

// Trailer adds raw entries to the trailer dictionary.
func (b *Builder) Trailer(entries ...string) {
	b.trailer = append(b.trailer, entries...)
}

// Stream formats a stream object with the right /Length. extra holds
// additional dictionary entries.
func Stream(extra, data string) string {
	return fmt.Sprintf("<< /Length %d %s>>\nstream\n%s\nendstream", len(data), extra, data)
}

// FlateStream formats a Flate-compressed stream object.
func FlateStream(extra, data string) string {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	w.Write([]byte(data))
	w.Close()
	return Stream("/Filter /FlateDecode "+extra, buf.String())
}

// Bytes writes the file.
func (b *Builder) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.Version)
	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(b.objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R %s>>\nstartxref\n%d\n%%%%EOF\n",
		len(b.objects)+1, strings.Join(b.trailer, " "), xref)
	return buf.Bytes()
}

// Document builds a file with one Helvetica page per content string.
func Document(contents ...string) []byte {
	b := New()
	b.Add("<< /Type /Catalog /Pages 2 0 R >>")
	b.Add("") // page tree, filled in below
	font := b.Add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")

	var kids []string
	for _, c := range contents {
		content := b.Add(Stream("", c))
		page := b.Add(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Contents %d 0 R >>", content))
		kids = append(kids, fmt.Sprintf("%d 0 R", page))
	}
	b.Set(2, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> >>",
		strings.Join(kids, " "), len(kids), font))
	return b.Bytes()
}

// ObjectStream formats a /Type /ObjStm stream holding the given objects.
func ObjectStream(nums []int, bodies []string) string {
	var header, data strings.Builder
	for i, n := range nums {
		fmt.Fprintf(&header, "%d %d ", n, data.Len())
		data.WriteString(bodies[i])
		data.WriteByte('\n')
	}
	h := header.String()
	return Stream(fmt.Sprintf("/Type /ObjStm /N %d /First %d ", len(nums), len(h)), h+data.String())
}

// BytesXRefStream writes the file with a cross-reference stream instead of
// a table. compressed maps object numbers to their object stream and
// index; those objects are not written at the top level.
func (b *Builder) BytesXRefStream(compressed map[int][2]int) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%%PDF-%s\n%%\xe2\xe3\xcf\xd3\n", b.Version)
	offsets := make([]int, len(b.objects))
	for i, body := range b.objects {
		if _, ok := compressed[i+1]; ok {
			continue
		}
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}

	xrefNum := len(b.objects) + 1
	xrefOffset := buf.Len()
	row := func(typ byte, f2, f3 int) []byte {
		return []byte{typ, byte(f2 >> 24), byte(f2 >> 16), byte(f2 >> 8), byte(f2), byte(f3 >> 8), byte(f3)}
	}
	var rows []byte
	for n := 0; n <= xrefNum; n++ {
		switch loc, ok := compressed[n]; {
		case n == 0:
			rows = append(rows, row(0, 0, 0xffff)...)
		case ok:
			rows = append(rows, row(2, loc[0], loc[1])...)
		case n == xrefNum:
			rows = append(rows, row(1, xrefOffset, 0)...)
		default:
			rows = append(rows, row(1, offsets[n-1], 0)...)
		}
	}
	fmt.Fprintf(&buf, "%d 0 obj\n<< /Type /XRef /Size %d /W [1 4 2] /Root 1 0 R %s/Length %d >>\nstream\n",
		xrefNum, xrefNum+1, strings.Join(b.trailer, " "), len(rows))
	buf.Write(rows)
	fmt.Fprintf(&buf, "\nendstream\nendobj\nstartxref\n%d\n%%%%EOF\n", xrefOffset)
	return buf.Bytes()
}
