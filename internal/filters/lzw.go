package filters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hhrutter/lzw"
)

// LZWDecode decodes LZW data using PDF's MSB-first variable code width.
// EarlyChange defaults to 1 as in the PDF specification.
func LZWDecode(data []byte, params Params) ([]byte, error) {
	earlyChange := params.Int("EarlyChange", 1) == 1
	r := lzw.NewReader(bytes.NewReader(data), earlyChange)
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("lzw: %w", err)
	}
	return unpredict(out, params)
}
