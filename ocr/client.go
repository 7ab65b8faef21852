//go:build ocr

package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client wraps a Tesseract instance. It is not safe for concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a client for the given languages, joined with "+" as in
// "eng+fra". An empty lang means DefaultLanguage. Close the client when
// done.
func New(lang string) (*Client, error) {
	if lang == "" {
		lang = DefaultLanguage
	}
	c := gosseract.NewClient()
	if err := c.SetLanguage(strings.Split(lang, "+")...); err != nil {
		c.Close()
		return nil, fmt.Errorf("set OCR language %q: %w", lang, err)
	}
	return &Client{client: c}, nil
}

// Close releases the Tesseract instance. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	err := c.client.Close()
	c.client = nil
	return err
}

// Recognize returns the text found in image, trimmed.
func (c *Client) Recognize(image []byte) (string, error) {
	if err := c.client.SetImageFromBytes(image); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}
	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
