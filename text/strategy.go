package text

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tsawler/pdftext/processor"
)

// Strategy is a render listener that accumulates text.
type Strategy interface {
	processor.RenderListener
	// ResultantText returns the text gathered so far.
	ResultantText() string
}

// ChunkEmitter writes one chunk of text into the result.
type ChunkEmitter interface {
	EmitChunk(b *strings.Builder, chunk string)
}

// PlainEmitter writes chunks as they are.
type PlainEmitter struct{}

// EmitChunk implements ChunkEmitter.
func (PlainEmitter) EmitChunk(b *strings.Builder, chunk string) {
	b.WriteString(chunk)
}

// NormalizingEmitter writes chunks in Unicode normalization form NFC, so
// that a base letter followed by a combining mark comes out as one rune.
type NormalizingEmitter struct{}

// EmitChunk implements ChunkEmitter.
func (NormalizingEmitter) EmitChunk(b *strings.Builder, chunk string) {
	b.WriteString(norm.NFC.String(chunk))
}
