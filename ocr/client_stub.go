//go:build !ocr

package ocr

// Client is the stand-in used when OCR support is not compiled in.
type Client struct{}

// New returns ErrOCRNotEnabled.
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op. It is safe on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrOCRNotEnabled.
func (c *Client) Recognize(image []byte) (string, error) {
	return "", ErrOCRNotEnabled
}
