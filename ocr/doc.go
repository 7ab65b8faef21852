// Package ocr recognises text in the images drawn on a page.
//
// Recognition uses the Tesseract engine through gosseract and is only
// compiled in with the "ocr" build tag:
//
//	go build -tags ocr
//
// Tesseract and its language data must be installed. Without the tag,
// New returns ErrOCRNotEnabled and the rest of the package still builds,
// so a Listener can be driven by any Recognizer.
package ocr

import "errors"

// ErrOCRNotEnabled is returned by New when the package was built without
// the ocr tag.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage is the Tesseract language used when none is given.
const DefaultLanguage = "eng"

// Recognizer turns encoded image data (PNG, JPEG, TIFF) into text.
type Recognizer interface {
	Recognize(image []byte) (string, error)
}
