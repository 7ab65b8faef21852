package source

import (
	"errors"
	"fmt"
	"io"
)

// EOF is returned by Get and GetRange when the requested position is at or
// after the end of the source.
const EOF = -1

var (
	// ErrClosed is returned when reading from a source that has been closed.
	ErrClosed = errors.New("source: closed")

	// ErrInvalidPosition is returned for negative read positions.
	ErrInvalidPosition = errors.New("source: invalid position")
)

// RandomAccessSource is a byte source addressed by absolute position.
type RandomAccessSource interface {
	// Get returns the byte at position, or EOF if position >= Length().
	Get(position int64) (int, error)

	// GetRange reads up to length bytes starting at position into
	// b[off:off+length]. It returns the number of bytes read, which is
	// greater than zero when length > 0, or EOF if position is at or
	// after the end of the source.
	GetRange(position int64, b []byte, off, length int) (int, error)

	// Length returns the number of bytes in the source.
	Length() int64

	// Close releases any resources held by the source.
	Close() error
}

// checkRange validates the destination arguments shared by every GetRange.
func checkRange(position int64, b []byte, off, length int) error {
	if position < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	if off < 0 || length < 0 || off+length > len(b) {
		return io.ErrShortBuffer
	}
	return nil
}

// ArraySource is a RandomAccessSource over a byte slice.
type ArraySource struct {
	data   []byte
	closed bool
}

// NewArraySource returns a source reading from data. The slice is not copied.
func NewArraySource(data []byte) *ArraySource {
	return &ArraySource{data: data}
}

// Get returns the byte at position or EOF.
func (s *ArraySource) Get(position int64) (int, error) {
	if s.closed {
		return EOF, ErrClosed
	}
	if position < 0 {
		return EOF, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	if position >= int64(len(s.data)) {
		return EOF, nil
	}
	return int(s.data[position]), nil
}

// GetRange copies up to length bytes starting at position.
func (s *ArraySource) GetRange(position int64, b []byte, off, length int) (int, error) {
	if s.closed {
		return EOF, ErrClosed
	}
	if err := checkRange(position, b, off, length); err != nil {
		return EOF, err
	}
	if position >= int64(len(s.data)) {
		return EOF, nil
	}
	if length == 0 {
		return 0, nil
	}
	return copy(b[off:off+length], s.data[position:]), nil
}

// Length returns the size of the underlying slice.
func (s *ArraySource) Length() int64 {
	return int64(len(s.data))
}

// Close drops the reference to the underlying slice.
func (s *ArraySource) Close() error {
	s.data = nil
	s.closed = true
	return nil
}
