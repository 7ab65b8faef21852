package reader

import (
	"fmt"

	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/processor"
	"github.com/tsawler/pdftext/text"
)

// ContentParser runs the content of pages through a processor.
type ContentParser struct {
	reader *Reader
	opts   []processor.Option
}

// NewContentParser returns a parser for the pages of r. opts are passed
// to every processor it creates, after the reader's own logger, metrics
// and resolver.
func NewContentParser(r *Reader, opts ...processor.Option) *ContentParser {
	base := []processor.Option{
		processor.WithLogger(r.logger),
		processor.WithMetrics(r.metrics),
		processor.WithResolver(r.resolver),
	}
	return &ContentParser{reader: r, opts: append(base, opts...)}
}

// Process interprets page n for listener. extra operators are registered
// over the defaults before processing starts.
func (cp *ContentParser) Process(n int, listener processor.RenderListener, extra map[string]processor.ContentOperator) error {
	page, err := cp.reader.Page(n)
	if err != nil {
		return err
	}
	resources, err := page.Resources()
	if err != nil {
		return err
	}
	content, err := page.Content()
	if err != nil {
		return err
	}

	p := processor.New(listener, cp.opts...)
	for name, op := range extra {
		p.RegisterContentOperator(name, op)
	}
	if err := p.ProcessContent(content, resources); err != nil {
		return fmt.Errorf("page %d: %w", n, err)
	}
	cp.reader.metrics.Count(metrics.PagesProcessed, 1)
	return nil
}

// ProcessContent interprets page n for listener and returns the listener,
// so a freshly built strategy can be used directly:
//
//	s, err := reader.ProcessContent(cp, 1, text.NewSimpleTextExtractionStrategy(), nil)
func ProcessContent[L processor.RenderListener](cp *ContentParser, n int, listener L, extra map[string]processor.ContentOperator) (L, error) {
	err := cp.Process(n, listener, extra)
	return listener, err
}

// ExtractText returns the text of page n as gathered by strategy. A nil
// strategy uses text.SimpleTextExtractionStrategy.
func ExtractText(r *Reader, n int, strategy text.Strategy) (string, error) {
	if strategy == nil {
		strategy = text.NewSimpleTextExtractionStrategy()
	}
	s, err := ProcessContent(NewContentParser(r), n, strategy, nil)
	if err != nil {
		return "", err
	}
	return s.ResultantText(), nil
}

// imageCollector decodes every image drawn on a page.
type imageCollector struct {
	images []*processor.PDFImage
	errs   []error
}

func (c *imageCollector) BeginTextBlock()                      {}
func (c *imageCollector) EndTextBlock()                        {}
func (c *imageCollector) RenderText(*processor.TextRenderInfo) {}

func (c *imageCollector) RenderImage(info *processor.ImageRenderInfo) {
	img, err := info.Image()
	if err != nil {
		c.errs = append(c.errs, err)
		return
	}
	c.images = append(c.images, img)
}

// PageImages returns the images drawn on page n, including inline images
// and images inside forms, in drawing order. Images that cannot be
// decoded are logged and left out.
func (r *Reader) PageImages(n int) ([]*processor.PDFImage, error) {
	c, err := ProcessContent(NewContentParser(r), n, &imageCollector{}, nil)
	if err != nil {
		return nil, err
	}
	for _, e := range c.errs {
		r.logger.Debug("skipping undecodable image", "page", n, "error", e)
	}
	return c.images, nil
}
