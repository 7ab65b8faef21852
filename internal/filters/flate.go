package filters

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// FlateDecode inflates zlib data and undoes any predictor. Truncated or
// corrupt streams yield whatever could be inflated before the damage, since
// many producers write slightly broken streams.
func FlateDecode(data []byte, params Params) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("flate: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil && len(out) == 0 {
		return nil, fmt.Errorf("flate: %w", err)
	}
	return unpredict(out, params)
}

// unpredict reverses the predictor named by params["Predictor"].
func unpredict(data []byte, params Params) ([]byte, error) {
	predictor := params.Int("Predictor", 1)
	switch {
	case predictor <= 1:
		return data, nil
	case predictor == 2:
		return tiffUnpredict(data, params)
	case predictor >= 10 && predictor <= 15:
		return pngUnpredict(data, params)
	}
	return nil, fmt.Errorf("unsupported predictor %d", predictor)
}

// rowGeometry returns bytes per pixel (at least 1) and bytes per row.
func rowGeometry(params Params) (bpp, rowBytes int) {
	colors := params.Int("Colors", 1)
	bpc := params.Int("BitsPerComponent", 8)
	columns := params.Int("Columns", 1)
	bpp = (colors*bpc + 7) / 8
	if bpp < 1 {
		bpp = 1
	}
	rowBytes = (colors*bpc*columns + 7) / 8
	return bpp, rowBytes
}

func tiffUnpredict(data []byte, params Params) ([]byte, error) {
	if bpc := params.Int("BitsPerComponent", 8); bpc != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component is not supported", bpc)
	}
	bpp, rowBytes := rowGeometry(params)
	if rowBytes == 0 {
		return data, nil
	}
	out := append([]byte(nil), data...)
	for row := 0; row+rowBytes <= len(out); row += rowBytes {
		for i := row + bpp; i < row+rowBytes; i++ {
			out[i] += out[i-bpp]
		}
	}
	return out, nil
}

func pngUnpredict(data []byte, params Params) ([]byte, error) {
	bpp, rowBytes := rowGeometry(params)
	stride := rowBytes + 1
	if rowBytes == 0 || len(data) < stride {
		return nil, fmt.Errorf("PNG predictor: data length %d shorter than one row of %d", len(data), stride)
	}

	rows := len(data) / stride
	out := make([]byte, rows*rowBytes)
	prev := make([]byte, rowBytes)
	for r := 0; r < rows; r++ {
		filter := data[r*stride]
		in := data[r*stride+1 : (r+1)*stride]
		cur := out[r*rowBytes : (r+1)*rowBytes]
		for i := range in {
			var left, upLeft byte
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			up := prev[i]
			switch filter {
			case 0:
				cur[i] = in[i]
			case 1:
				cur[i] = in[i] + left
			case 2:
				cur[i] = in[i] + up
			case 3:
				cur[i] = in[i] + byte((int(left)+int(up))/2)
			case 4:
				cur[i] = in[i] + paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("PNG predictor: unknown row filter %d in row %d", filter, r)
			}
		}
		prev = cur
	}
	return out, nil
}

// paeth picks the neighbour closest to left + up - upLeft.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
