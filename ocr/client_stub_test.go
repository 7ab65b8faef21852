//go:build !ocr

package ocr

import (
	"errors"
	"testing"
)

// TestStubClient tests the client built without OCR support.
func TestStubClient(t *testing.T) {
	c, err := New("")
	if !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
	if c != nil {
		t.Error("expected nil client")
	}
	if err := c.Close(); err != nil {
		t.Errorf("expected nil error closing nil client, got %v", err)
	}
	if _, err := c.Recognize(nil); !errors.Is(err, ErrOCRNotEnabled) {
		t.Errorf("expected ErrOCRNotEnabled, got %v", err)
	}
}
