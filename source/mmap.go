package source

import (
	"fmt"

	"golang.org/x/exp/mmap"
)

// MmapSource serves a memory-mapped file.
type MmapSource struct {
	m *mmap.ReaderAt
}

// OpenMmap maps the named file into memory.
func OpenMmap(path string) (*MmapSource, error) {
	m, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map file: %w", err)
	}
	return &MmapSource{m: m}, nil
}

// Get returns the byte at position or EOF.
func (s *MmapSource) Get(position int64) (int, error) {
	if s.m == nil {
		return EOF, ErrClosed
	}
	if position < 0 {
		return EOF, fmt.Errorf("%w: %d", ErrInvalidPosition, position)
	}
	if position >= int64(s.m.Len()) {
		return EOF, nil
	}
	return int(s.m.At(int(position))), nil
}

// GetRange copies up to length bytes starting at position.
func (s *MmapSource) GetRange(position int64, b []byte, off, length int) (int, error) {
	if s.m == nil {
		return EOF, ErrClosed
	}
	if err := checkRange(position, b, off, length); err != nil {
		return EOF, err
	}
	size := int64(s.m.Len())
	if position >= size {
		return EOF, nil
	}
	if length == 0 {
		return 0, nil
	}
	if remaining := size - position; int64(length) > remaining {
		length = int(remaining)
	}
	n, err := s.m.ReadAt(b[off:off+length], position)
	if n == 0 {
		return EOF, err
	}
	return n, nil
}

// Length returns the mapped size.
func (s *MmapSource) Length() int64 {
	if s.m == nil {
		return 0
	}
	return int64(s.m.Len())
}

// ReadAt implements io.ReaderAt so a mapping can back a PagedSource.
func (s *MmapSource) ReadAt(p []byte, off int64) (int, error) {
	if s.m == nil {
		return 0, ErrClosed
	}
	return s.m.ReadAt(p, off)
}

// Close unmaps the file.
func (s *MmapSource) Close() error {
	if s.m == nil {
		return nil
	}
	err := s.m.Close()
	s.m = nil
	return err
}
