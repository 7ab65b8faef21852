package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdftext/metrics"
)

// Reader is a cursor over a RandomAccessSource.
type Reader struct {
	src     RandomAccessSource
	pos     int64
	metrics metrics.Reporter
}

// NewReader returns a cursor positioned at the start of src.
func NewReader(src RandomAccessSource, opts ...Option) *Reader {
	o := newOptions(opts)
	return &Reader{src: src, metrics: o.metrics}
}

// Source returns the underlying source.
func (r *Reader) Source() RandomAccessSource {
	return r.src
}

// Size returns the length of the underlying source.
func (r *Reader) Size() int64 {
	return r.src.Length()
}

// Position returns the current cursor offset.
func (r *Reader) Position() int64 {
	return r.pos
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := r.src.GetRange(r.pos, p, 0, len(p))
	if err != nil {
		return 0, err
	}
	if n == EOF {
		return 0, io.EOF
	}
	r.pos += int64(n)
	r.metrics.Count(metrics.BytesRead, int64(n))
	return n, nil
}

// ReadAt implements io.ReaderAt. It does not move the cursor.
func (r *Reader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 {
		return 0, ErrInvalidPosition
	}
	total := 0
	for total < len(p) {
		n, err := r.src.GetRange(off+int64(total), p, total, len(p)-total)
		if err != nil {
			return total, err
		}
		if n == EOF {
			break
		}
		total += n
	}
	r.metrics.Count(metrics.BytesRead, int64(total))
	if total < len(p) {
		return total, io.EOF
	}
	return total, nil
}

// ReadByte implements io.ByteReader.
func (r *Reader) ReadByte() (byte, error) {
	c, err := r.src.Get(r.pos)
	if err != nil {
		return 0, err
	}
	if c == EOF {
		return 0, io.EOF
	}
	r.pos++
	r.metrics.Count(metrics.BytesRead, 1)
	return byte(c), nil
}

// UnreadByte implements io.ByteScanner.
func (r *Reader) UnreadByte() error {
	if r.pos <= 0 {
		return errors.New("source: UnreadByte at beginning of source")
	}
	r.pos--
	return nil
}

// Seek implements io.Seeker.
func (r *Reader) Seek(offset int64, whence int) (int64, error) {
	var abs int64
	switch whence {
	case io.SeekStart:
		abs = offset
	case io.SeekCurrent:
		abs = r.pos + offset
	case io.SeekEnd:
		abs = r.src.Length() + offset
	default:
		return 0, fmt.Errorf("source: invalid whence %d", whence)
	}
	if abs < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidPosition, abs)
	}
	r.pos = abs
	return abs, nil
}

// Close closes the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}
