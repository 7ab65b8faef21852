//go:build ocr

package ocr

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func blankPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, 100, 50))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	for x := 10; x < 50; x++ {
		for y := 10; y < 30; y++ {
			img.SetGray(x, y, color.Gray{})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// TestClient tests a round trip through Tesseract when it is installed.
func TestClient(t *testing.T) {
	c, err := New(DefaultLanguage)
	if err != nil {
		t.Skipf("Tesseract not available: %v", err)
	}
	defer c.Close()

	if _, err := c.Recognize(blankPNG(t)); err != nil {
		t.Errorf("Recognize failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
}
