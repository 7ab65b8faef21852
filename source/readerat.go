package source

import (
	"errors"
	"fmt"
	"io"
	"os"
)

// ReaderAtSource adapts an io.ReaderAt of known size.
type ReaderAtSource struct {
	r      io.ReaderAt
	size   int64
	closer io.Closer
	closed bool
}

// NewReaderAtSource returns a source over r, which holds size bytes. If r
// also implements io.Closer it is closed by Close.
func NewReaderAtSource(r io.ReaderAt, size int64) *ReaderAtSource {
	s := &ReaderAtSource{r: r, size: size}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

// OpenFile opens the named file for positional reads without mapping it.
func OpenFile(path string) (*ReaderAtSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	return NewReaderAtSource(f, info.Size()), nil
}

// Get returns the byte at position or EOF.
func (s *ReaderAtSource) Get(position int64) (int, error) {
	var one [1]byte
	n, err := s.GetRange(position, one[:], 0, 1)
	if n <= 0 {
		return EOF, err
	}
	return int(one[0]), nil
}

// GetRange reads up to length bytes starting at position.
func (s *ReaderAtSource) GetRange(position int64, b []byte, off, length int) (int, error) {
	if s.closed {
		return EOF, ErrClosed
	}
	if err := checkRange(position, b, off, length); err != nil {
		return EOF, err
	}
	if position >= s.size {
		return EOF, nil
	}
	if length == 0 {
		return 0, nil
	}
	if remaining := s.size - position; int64(length) > remaining {
		length = int(remaining)
	}

	n, err := s.r.ReadAt(b[off:off+length], position)
	if err != nil && !errors.Is(err, io.EOF) {
		return EOF, fmt.Errorf("read %d of %d bytes at %d: %w", n, length, position, err)
	}
	if n > 0 {
		return n, nil
	}
	return EOF, nil
}

// Length returns the size given at construction.
func (s *ReaderAtSource) Length() int64 {
	return s.size
}

// Close closes the underlying reader if it is closable.
func (s *ReaderAtSource) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
