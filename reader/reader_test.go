package reader

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/tsawler/pdftext/contentstream"
	"github.com/tsawler/pdftext/internal/pdftest"
	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/processor"
	"github.com/tsawler/pdftext/text"
)

const (
	helloPage = "BT /F1 12 Tf 72 720 Td (Hello) Tj ET"
	worldPage = "BT /F1 12 Tf 72 700 Td (World) Tj ET"
)

func mustRead(t *testing.T, data []byte, opts ...Option) *Reader {
	t.Helper()
	r, err := FromBytes(data, opts...)
	if err != nil {
		t.Fatalf("FromBytes failed: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func pageText(t *testing.T, r *Reader, n int) string {
	t.Helper()
	s, err := ExtractText(r, n, nil)
	if err != nil {
		t.Fatalf("ExtractText(%d) failed: %v", n, err)
	}
	return s
}

var startXRef = regexp.MustCompile(`startxref\s+(\d+)`)

// appendUpdate adds an incremental update replacing object num.
func appendUpdate(t *testing.T, base []byte, num int, body string) []byte {
	t.Helper()
	m := startXRef.FindAllSubmatch(base, -1)
	if m == nil {
		t.Fatal("no startxref in base file")
	}
	prev := string(m[len(m)-1][1])

	var buf bytes.Buffer
	buf.Write(base)
	off := buf.Len()
	fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n%d 1\n%010d 00000 n \ntrailer\n<< /Size %d /Root 1 0 R /Prev %s >>\nstartxref\n%d\n%%%%EOF\n",
		num, off, num+1, prev, xref)
	return buf.Bytes()
}

// TestFromBytes tests opening a simple document.
func TestFromBytes(t *testing.T) {
	r := mustRead(t, pdftest.Document(helloPage, worldPage))

	if got := r.Version().String(); got != "1.7" {
		t.Errorf("expected version 1.7, got %s", got)
	}
	if got := r.NumPages(); got != 2 {
		t.Fatalf("expected 2 pages, got %d", got)
	}
	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
	if got := pageText(t, r, 2); got != "World" {
		t.Errorf("expected %q, got %q", "World", got)
	}

	content, err := r.PageContent(1)
	if err != nil {
		t.Fatalf("PageContent failed: %v", err)
	}
	if string(content) != helloPage {
		t.Errorf("expected content %q, got %q", helloPage, content)
	}
	res, err := r.PageResources(2)
	if err != nil {
		t.Fatalf("PageResources failed: %v", err)
	}
	if !res.Has("Font") {
		t.Error("expected inherited Font resources")
	}
}

// TestOpen tests reading a document from disk.
func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, pdftest.Document(helloPage), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer r.Close()

	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}

	if _, err := Open(filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestOpenErrors tests rejected inputs.
func TestOpenErrors(t *testing.T) {
	if _, err := FromBytes([]byte("hello world")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}

	b := pdftest.New()
	b.Add("<< /Type /Catalog /Pages 2 0 R >>")
	b.Add("<< /Type /Pages /Kids [] /Count 0 >>")
	b.Trailer("/Encrypt << /Filter /Standard /V 1 >>")
	if _, err := FromBytes(b.Bytes()); !errors.Is(err, ErrEncrypted) {
		t.Errorf("expected ErrEncrypted, got %v", err)
	}
}

// TestPageOutOfRange tests page numbers outside the document.
func TestPageOutOfRange(t *testing.T) {
	r := mustRead(t, pdftest.Document(helloPage))
	for _, n := range []int{0, 2, -1} {
		if _, err := r.Page(n); !errors.Is(err, ErrPageOutOfRange) {
			t.Errorf("page %d: expected ErrPageOutOfRange, got %v", n, err)
		}
	}
	if _, err := ExtractText(r, 3, nil); !errors.Is(err, ErrPageOutOfRange) {
		t.Errorf("expected ErrPageOutOfRange from ExtractText, got %v", err)
	}
	if _, err := r.GetObject(99); !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("expected ErrObjectNotFound, got %v", err)
	}
}

// TestInfoAndVersion tests the information dictionary and a catalog
// version override.
func TestInfoAndVersion(t *testing.T) {
	b := pdftest.New()
	b.Version = "1.4"
	b.Add("<< /Type /Catalog /Pages 2 0 R /Version /1.7 >>")
	b.Add("<< /Type /Pages /Kids [] /Count 0 >>")
	info := b.Add("<< /Title (Quarterly Report) /Author <FEFF00C90076006100> >>")
	b.Trailer(fmt.Sprintf("/Info %d 0 R", info))
	r := mustRead(t, b.Bytes())

	if got := r.Version(); got != (Version{Major: 1, Minor: 7}) {
		t.Errorf("expected version 1.7, got %s", got)
	}
	if got := r.InfoString("Title"); got != "Quarterly Report" {
		t.Errorf("expected title, got %q", got)
	}
	if got := r.InfoString("Author"); got != "Éva" {
		t.Errorf("expected UTF-16 author, got %q", got)
	}
	if got := r.InfoString("Subject"); got != "" {
		t.Errorf("expected empty subject, got %q", got)
	}
	if got := r.NumPages(); got != 0 {
		t.Errorf("expected 0 pages, got %d", got)
	}
}

// TestOlderCatalogVersion tests that an older catalog version does not
// override the header.
func TestOlderCatalogVersion(t *testing.T) {
	b := pdftest.New()
	b.Add("<< /Type /Catalog /Pages 2 0 R /Version /1.3 >>")
	b.Add("<< /Type /Pages /Kids [] /Count 0 >>")
	r := mustRead(t, b.Bytes())
	if got := r.Version().String(); got != "1.7" {
		t.Errorf("expected 1.7, got %s", got)
	}
}

// TestFlateContent tests compressed page content.
func TestFlateContent(t *testing.T) {
	b := pdftest.New()
	b.Add("<< /Type /Catalog /Pages 2 0 R >>")
	b.Add("<< /Type /Pages /Kids [5 0 R] /Count 1 /Resources << /Font << /F1 3 0 R >> >> >>")
	b.Add("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")
	b.Add(pdftest.FlateStream("", helloPage))
	b.Add("<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>")
	r := mustRead(t, b.Bytes())

	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
}

// TestIncrementalUpdate tests that a later revision replaces an object.
func TestIncrementalUpdate(t *testing.T) {
	base := pdftest.Document(helloPage)
	updated := appendUpdate(t, base, 4, pdftest.Stream("", worldPage))
	r := mustRead(t, updated)

	if got := pageText(t, r, 1); got != "World" {
		t.Errorf("expected updated text %q, got %q", "World", got)
	}
	if _, ok := r.Trailer().GetInt("Prev"); !ok {
		t.Error("expected newest trailer with /Prev")
	}
}

// TestRebuildXRef tests recovery from a broken startxref offset.
func TestRebuildXRef(t *testing.T) {
	data := pdftest.Document(helloPage)
	broken := startXRef.ReplaceAll(data, []byte("startxref\n99999999"))

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	r := mustRead(t, broken, WithLogger(logger))

	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}
	if !strings.Contains(logs.String(), "rebuilding cross-reference table") {
		t.Errorf("expected rebuild warning, got %q", logs.String())
	}
}

// TestXRefStream tests objects stored in an object stream and located
// through a cross-reference stream.
func TestXRefStream(t *testing.T) {
	catalog := "<< /Type /Catalog /Pages 2 0 R >>"
	tree := "<< /Type /Pages /Kids [5 0 R] /Count 1 /Resources << /Font << /F1 3 0 R >> >> >>"
	helv := "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>"
	page := "<< /Type /Page /Parent 2 0 R /Contents 4 0 R >>"

	b := pdftest.New()
	b.Add(catalog)
	b.Add(tree)
	b.Add(helv)
	b.Add(pdftest.Stream("", helloPage))
	b.Add(page)
	ostm := b.Add(pdftest.ObjectStream([]int{1, 2, 3, 5}, []string{catalog, tree, helv, page}))
	data := b.BytesXRefStream(map[int][2]int{
		1: {ostm, 0},
		2: {ostm, 1},
		3: {ostm, 2},
		5: {ostm, 3},
	})
	r := mustRead(t, data)

	if got := r.NumPages(); got != 1 {
		t.Fatalf("expected 1 page, got %d", got)
	}
	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}

	r.ClearCache()
	if _, err := r.GetObject(3); err != nil {
		t.Errorf("GetObject after ClearCache failed: %v", err)
	}
}

// TestMissingFont tests that an undefined font stops processing.
func TestMissingFont(t *testing.T) {
	r := mustRead(t, pdftest.Document("BT /F9 12 Tf (x) Tj ET"))

	_, err := ExtractText(r, 1, nil)
	var re *processor.ResourceError
	if !errors.As(err, &re) {
		t.Fatalf("expected *processor.ResourceError, got %v", err)
	}
	if re.Name != "F9" {
		t.Errorf("expected resource F9, got %q", re.Name)
	}
	if !errors.Is(err, processor.ErrResourceNotFound) {
		t.Error("expected ErrResourceNotFound in chain")
	}
	if !strings.HasPrefix(err.Error(), "page 1: ") {
		t.Errorf("expected page prefix, got %q", err.Error())
	}
}

// TestProcessContent tests the generic driver and operator overrides.
func TestProcessContent(t *testing.T) {
	r := mustRead(t, pdftest.Document(helloPage))
	cp := NewContentParser(r)

	in := text.NewSimpleTextExtractionStrategy()
	out, err := ProcessContent(cp, 1, in, nil)
	if err != nil {
		t.Fatalf("ProcessContent failed: %v", err)
	}
	if out != in {
		t.Error("expected the same listener back")
	}
	if got := out.ResultantText(); got != "Hello" {
		t.Errorf("expected %q, got %q", "Hello", got)
	}

	var shown []string
	extra := map[string]processor.ContentOperator{
		"Tj": processor.ContentOperatorFunc(func(p *processor.Processor, op contentstream.Operation) error {
			shown = append(shown, fmt.Sprint(op.Operands))
			return nil
		}),
	}
	s, err := ProcessContent(cp, 1, text.NewSimpleTextExtractionStrategy(), extra)
	if err != nil {
		t.Fatalf("ProcessContent with override failed: %v", err)
	}
	if got := s.ResultantText(); got != "" {
		t.Errorf("expected no text with Tj overridden, got %q", got)
	}
	if len(shown) != 1 {
		t.Errorf("expected override to run once, got %d", len(shown))
	}

	// overrides do not leak into later runs
	if got := pageText(t, r, 1); got != "Hello" {
		t.Errorf("expected %q after override, got %q", "Hello", got)
	}
}

// TestExtractTextStrategy tests a caller-supplied strategy.
func TestExtractTextStrategy(t *testing.T) {
	r := mustRead(t, pdftest.Document("BT /F1 12 Tf 72 700 Td (World) Tj ET BT /F1 12 Tf 72 720 Td (Hello) Tj ET"))

	simple := pageText(t, r, 1)
	if simple != "World\nHello" {
		t.Errorf("expected stream order, got %q", simple)
	}
	located, err := ExtractText(r, 1, text.NewLocationTextExtractionStrategy())
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if located != "Hello\nWorld" {
		t.Errorf("expected reading order, got %q", located)
	}
}

// TestPageImages tests image collection.
func TestPageImages(t *testing.T) {
	b := pdftest.New()
	b.Add("<< /Type /Catalog /Pages 2 0 R >>")
	b.Add("<< /Type /Pages /Kids [5 0 R] /Count 1 >>")
	b.Add(pdftest.Stream("/Type /XObject /Subtype /Image /Width 1 /Height 1 /ColorSpace /DeviceRGB /BitsPerComponent 8 ", "\xff\x00\x00"))
	b.Add(pdftest.Stream("", "q 50 0 0 50 0 0 cm /Im1 Do Q BI /W 2 /H 1 /CS /G /BPC 8 ID \x00\xff EI"))
	b.Add("<< /Type /Page /Parent 2 0 R /Contents 4 0 R /Resources << /XObject << /Im1 3 0 R >> >> >>")
	r := mustRead(t, b.Bytes())

	images, err := r.PageImages(1)
	if err != nil {
		t.Fatalf("PageImages failed: %v", err)
	}
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Name != "Im1" || images[0].ColorSpace != "DeviceRGB" {
		t.Errorf("unexpected first image %+v", images[0])
	}
	if images[1].Width != 2 || images[1].ColorSpace != "DeviceGray" {
		t.Errorf("unexpected inline image %+v", images[1])
	}
}

// TestMetrics tests the counters reported while reading.
func TestMetrics(t *testing.T) {
	m := metrics.NewMemory()
	r := mustRead(t, pdftest.Document(helloPage, worldPage), WithMetrics(m))
	for n := 1; n <= r.NumPages(); n++ {
		pageText(t, r, n)
	}

	if got := m.Value(metrics.PagesProcessed); got != 2 {
		t.Errorf("expected 2 pages processed, got %d", got)
	}
	if got := m.Value(metrics.ObjectsResolved); got == 0 {
		t.Error("expected objects to be resolved")
	}
	if got := m.Value(metrics.BytesRead); got == 0 {
		t.Error("expected bytes to be read")
	}
	if got := m.Value(metrics.TextRenders); got != 2 {
		t.Errorf("expected 2 text renders, got %d", got)
	}
}
