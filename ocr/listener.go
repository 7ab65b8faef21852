package ocr

import (
	"fmt"
	"strings"

	"github.com/tsawler/pdftext/processor"
)

// Listener collects the text a Recognizer finds in each image of a page.
// Text drawn with fonts is ignored. Images that fail to decode or
// recognise are recorded in Errors and do not stop processing.
type Listener struct {
	rec     Recognizer
	minArea float64
	texts   []string
	errs    []error
}

// NewListener returns a listener that sends images to rec. Images whose
// area in user space is below minArea are skipped, which keeps rules and
// small icons away from the engine.
func NewListener(rec Recognizer, minArea float64) *Listener {
	return &Listener{rec: rec, minArea: minArea}
}

func (l *Listener) BeginTextBlock()                      {}
func (l *Listener) EndTextBlock()                        {}
func (l *Listener) RenderText(*processor.TextRenderInfo) {}

// RenderImage recognises one image.
func (l *Listener) RenderImage(info *processor.ImageRenderInfo) {
	if info.Area() < l.minArea {
		return
	}
	img, err := info.Image()
	if err != nil {
		l.errs = append(l.errs, err)
		return
	}
	data, err := img.ToPNG()
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("image %s: %w", img.Name, err))
		return
	}
	text, err := l.rec.Recognize(data)
	if err != nil {
		l.errs = append(l.errs, fmt.Errorf("image %s: %w", img.Name, err))
		return
	}
	if text = strings.TrimSpace(text); text != "" {
		l.texts = append(l.texts, text)
	}
}

// ResultantText returns the recognised text of each image in drawing
// order, separated by blank lines.
func (l *Listener) ResultantText() string {
	return strings.Join(l.texts, "\n\n")
}

// Errors returns the failures seen so far.
func (l *Listener) Errors() []error {
	return l.errs
}
