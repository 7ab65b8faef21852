package pdftext

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/ocr"
	"github.com/tsawler/pdftext/processor"
	"github.com/tsawler/pdftext/reader"
	"github.com/tsawler/pdftext/text"
)

// ErrInvalidPage is returned when a selected page does not exist.
var ErrInvalidPage = errors.New("invalid page")

// discard is used when no logger was configured.
var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Extractor provides a fluent interface for extracting content from PDFs.
// Each configuration method returns a new Extractor instance, so a
// partially configured Extractor can be reused as a template.
type Extractor struct {
	// Source
	filename string
	data     []byte

	reader *reader.Reader

	// Lifecycle
	ownsReader   bool // true if we opened the reader and should close it
	readerOpened bool // true if reader has been opened

	// Configuration
	options ExtractOptions

	// Accumulated error (fail-fast)
	err error

	// Warnings accumulated during processing
	warnings []Warning

	ocrClient *ocr.Client
	ocrErr    error
}

// clone creates a shallow copy of the Extractor with a deep copy of options.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename:     e.filename,
		data:         e.data,
		reader:       e.reader,
		ownsReader:   e.ownsReader,
		readerOpened: e.readerOpened,
		options:      e.options.clone(),
		err:          e.err,
		warnings:     append([]Warning(nil), e.warnings...),
	}
}

func (e *Extractor) logger() *slog.Logger {
	if e.options.logger != nil {
		return e.options.logger
	}
	return discard
}

// ensureReader opens the reader if not already open.
func (e *Extractor) ensureReader() error {
	if e.readerOpened {
		return nil
	}
	opts := []reader.Option{
		reader.WithLogger(e.options.logger),
		reader.WithMetrics(e.options.metrics),
	}

	var r *reader.Reader
	var err error
	switch {
	case e.data != nil:
		r, err = reader.FromBytes(e.data, opts...)
	case e.filename != "":
		r, err = reader.Open(e.filename, opts...)
	default:
		return fmt.Errorf("no filename specified")
	}
	if err != nil {
		return fmt.Errorf("failed to open PDF: %w", err)
	}
	e.reader = r
	e.ownsReader = true
	e.readerOpened = true
	return nil
}

// Close releases resources associated with the Extractor.
// It is safe to call Close multiple times.
func (e *Extractor) Close() error {
	if e.ocrClient != nil {
		e.ocrClient.Close()
		e.ocrClient = nil
	}
	if e.ownsReader && e.reader != nil {
		err := e.reader.Close()
		e.reader = nil
		e.ownsReader = false
		e.readerOpened = false
		return err
	}
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Pages specifies which pages to extract from (1-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	text, _, err := pdftext.Open("doc.pdf").Pages(1, 3, 5).Text()
func (e *Extractor) Pages(pages ...int) *Extractor {
	newExt := e.clone()
	newExt.options.pages = append(newExt.options.pages, pages...)
	return newExt
}

// PageRange specifies a range of pages to extract (1-indexed, inclusive).
//
// Example:
//
//	text, _, err := pdftext.Open("doc.pdf").PageRange(5, 10).Text()
func (e *Extractor) PageRange(start, end int) *Extractor {
	newExt := e.clone()
	if start > end {
		newExt.err = fmt.Errorf("%w: range %d-%d", ErrInvalidPage, start, end)
		return newExt
	}
	for i := start; i <= end; i++ {
		newExt.options.pages = append(newExt.options.pages, i)
	}
	return newExt
}

// Strategy selects how page text is assembled. The default is Simple.
//
// Example:
//
//	text, _, err := pdftext.Open("doc.pdf").Strategy(pdftext.Location).Text()
func (e *Extractor) Strategy(kind StrategyKind) *Extractor {
	newExt := e.clone()
	newExt.options.strategy = kind
	return newExt
}

// Normalize converts extracted text to Unicode normalization form NFC.
func (e *Extractor) Normalize() *Extractor {
	newExt := e.clone()
	newExt.options.normalize = true
	return newExt
}

// Region restricts extraction to text whose baseline crosses region, in
// default user space.
func (e *Extractor) Region(region model.BBox) *Extractor {
	newExt := e.clone()
	newExt.options.region = &region
	return newExt
}

// VisibleOnly drops invisible text, such as the OCR layer of a scanned
// page.
func (e *Extractor) VisibleOnly() *Extractor {
	newExt := e.clone()
	newExt.options.visibleOnly = true
	return newExt
}

// WithOperator registers op for the named content operator on every page,
// replacing the built-in handler.
func (e *Extractor) WithOperator(name string, op processor.ContentOperator) *Extractor {
	newExt := e.clone()
	if newExt.options.operators == nil {
		newExt.options.operators = make(map[string]processor.ContentOperator)
	}
	newExt.options.operators[name] = op
	return newExt
}

// Logger sets the logger used by the reader and the processor.
func (e *Extractor) Logger(l *slog.Logger) *Extractor {
	newExt := e.clone()
	newExt.options.logger = l
	return newExt
}

// Metrics sets the reporter that receives counters while reading.
func (e *Extractor) Metrics(m metrics.Reporter) *Extractor {
	newExt := e.clone()
	newExt.options.metrics = metrics.OrNop(m)
	return newExt
}

// HTMLTitle sets the document title written by HTML.
func (e *Extractor) HTMLTitle(title string) *Extractor {
	newExt := e.clone()
	newExt.options.htmlTitle = title
	return newExt
}

// OCR recognises the images of pages that have no text, using the given
// Tesseract languages ("" means English). It needs the ocr build tag;
// without it each such page produces a warning.
func (e *Extractor) OCR(language string) *Extractor {
	newExt := e.clone()
	newExt.options.ocr = true
	newExt.options.ocrLanguage = language
	return newExt
}

// ============================================================================
// Terminal Operations
// ============================================================================

// PageCount returns the total number of pages in the document.
// Note: This does NOT close the reader, allowing further operations.
//
// Example:
//
//	ext := pdftext.Open("document.pdf")
//	defer ext.Close()
//	count, err := ext.PageCount()
func (e *Extractor) PageCount() (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	if err := e.ensureReader(); err != nil {
		return 0, err
	}
	return e.reader.NumPages(), nil
}

// Text extracts the text of the selected pages, separated by blank lines.
// Pages that fail are skipped and reported as warnings.
//
// Example:
//
//	text, warnings, err := pdftext.Open("document.pdf").Text()
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", pdftext.FormatWarnings(warnings))
//	}
func (e *Extractor) Text() (string, []Warning, error) {
	pages, warnings, err := e.PageTexts()
	if err != nil {
		return "", warnings, err
	}
	var result strings.Builder
	for _, pageText := range pages {
		if pageText == "" {
			continue
		}
		if result.Len() > 0 {
			result.WriteString("\n\n")
		}
		result.WriteString(pageText)
	}
	return result.String(), warnings, nil
}

// PageTexts extracts the text of each selected page. A page that fails
// yields "" and a warning.
func (e *Extractor) PageTexts() ([]string, []Warning, error) {
	var pages []string
	warnings, err := e.eachPage(func(cp *reader.ContentParser, n int) error {
		pageText, err := e.pageText(cp, n)
		pages = append(pages, pageText)
		return err
	})
	return pages, warnings, err
}

// HTML writes the text of the selected pages as an HTML document, one
// section per page.
func (e *Extractor) HTML(w io.Writer) ([]Warning, error) {
	pages, warnings, err := e.PageTexts()
	if err != nil {
		return warnings, err
	}
	title := e.options.htmlTitle
	if title == "" && e.filename != "" {
		title = e.filename
	}
	return warnings, text.WriteHTML(w, title, pages)
}

// Fragments returns the positioned text fragments of the selected pages.
//
// Example:
//
//	fragments, warnings, err := pdftext.Open("document.pdf").Pages(1).Fragments()
func (e *Extractor) Fragments() ([]text.TextFragment, []Warning, error) {
	var all []text.TextFragment
	warnings, err := e.eachPage(func(cp *reader.ContentParser, n int) error {
		c, err := reader.ProcessContent(cp, n, text.NewFragmentCollector(), e.options.operators)
		if err != nil {
			return err
		}
		all = append(all, c.Fragments()...)
		return nil
	})
	return all, warnings, err
}

// Images returns the decoded images of the selected pages.
func (e *Extractor) Images() ([]*processor.PDFImage, []Warning, error) {
	var all []*processor.PDFImage
	warnings, err := e.eachPage(func(_ *reader.ContentParser, n int) error {
		images, err := e.reader.PageImages(n)
		if err != nil {
			return err
		}
		all = append(all, images...)
		return nil
	})
	return all, warnings, err
}

// ============================================================================
// Internal helpers
// ============================================================================

// eachPage opens the document, runs fn on every selected page and closes
// the document. Page failures become warnings.
func (e *Extractor) eachPage(fn func(cp *reader.ContentParser, n int) error) ([]Warning, error) {
	if e.err != nil {
		return nil, e.err
	}
	if err := e.ensureReader(); err != nil {
		return nil, err
	}
	defer e.Close()

	pageNums, err := e.resolvePages()
	if err != nil {
		return nil, err
	}
	cp := reader.NewContentParser(e.reader)
	for _, n := range pageNums {
		if err := fn(cp, n); err != nil {
			e.logger().Warn("skipping page", "page", n, "error", err)
			e.warnings = append(e.warnings, Warning{Page: n, Message: "page skipped", Err: err})
		}
	}
	return e.warnings, nil
}

// resolvePages validates the selected pages and returns them sorted and
// de-duplicated. If no pages are selected, returns all pages.
func (e *Extractor) resolvePages() ([]int, error) {
	pageCount := e.reader.NumPages()
	if len(e.options.pages) == 0 {
		all := make([]int, pageCount)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	var pageNums []int
	for _, p := range e.options.pages {
		if p < 1 || p > pageCount {
			return nil, fmt.Errorf("%w: %d out of range (1-%d)", ErrInvalidPage, p, pageCount)
		}
		pageNums = append(pageNums, p)
	}
	slices.Sort(pageNums)
	return slices.Compact(pageNums), nil
}

func (e *Extractor) newStrategy() text.Strategy {
	var s text.Strategy
	switch e.options.strategy {
	case Location:
		s = text.NewLocationTextExtractionStrategy()
	case Fragments:
		s = text.NewFragmentCollector()
	default:
		if e.options.normalize {
			s = text.NewSimpleTextExtractionStrategyWithEmitter(text.NormalizingEmitter{})
		} else {
			s = text.NewSimpleTextExtractionStrategy()
		}
	}

	var filters []text.RenderFilter
	if e.options.region != nil {
		filters = append(filters, text.RegionFilter{Region: *e.options.region})
	}
	if e.options.visibleOnly {
		filters = append(filters, text.VisibleTextFilter{})
	}
	if len(filters) > 0 {
		return text.NewFilteredListener(s, filters...)
	}
	return s
}

func (e *Extractor) pageText(cp *reader.ContentParser, n int) (string, error) {
	s, err := reader.ProcessContent(cp, n, e.newStrategy(), e.options.operators)
	if err != nil {
		return "", err
	}
	pageText := s.ResultantText()
	if e.options.normalize {
		pageText = norm.NFC.String(pageText)
	}
	if pageText == "" && e.options.ocr {
		return e.ocrPage(cp, n)
	}
	return pageText, nil
}

// ocrPage recognises the images of page n. The OCR client is created on
// first use and kept until Close.
func (e *Extractor) ocrPage(cp *reader.ContentParser, n int) (string, error) {
	if e.ocrClient == nil && e.ocrErr == nil {
		e.ocrClient, e.ocrErr = ocr.New(e.options.ocrLanguage)
	}
	if e.ocrErr != nil {
		return "", fmt.Errorf("OCR: %w", e.ocrErr)
	}
	l, err := reader.ProcessContent(cp, n, ocr.NewListener(e.ocrClient, e.options.ocrMinArea), nil)
	if err != nil {
		return "", err
	}
	for _, err := range l.Errors() {
		e.warnings = append(e.warnings, Warning{Page: n, Message: "OCR failed for image", Err: err})
	}
	return l.ResultantText(), nil
}
