package source

import (
	"errors"
)

// Lifecycle receives notifications when a GroupedSource switches the child it
// reads from. SourceReleased is called for the previous child before
// SourceInUse is called for the next one.
type Lifecycle interface {
	SourceInUse(s RandomAccessSource) error
	SourceReleased(s RandomAccessSource) error
}

type nopLifecycle struct{}

func (nopLifecycle) SourceInUse(RandomAccessSource) error    { return nil }
func (nopLifecycle) SourceReleased(RandomAccessSource) error { return nil }

// sourceEntry places one child in the group's address space.
type sourceEntry struct {
	index     int
	source    RandomAccessSource
	firstByte int64
	lastByte  int64
}

func (e *sourceEntry) contains(offset int64) bool {
	return offset >= e.firstByte && offset <= e.lastByte
}

// offsetN converts a group offset to an offset within the child.
func (e *sourceEntry) offsetN(absolute int64) int64 {
	return absolute - e.firstByte
}

// GroupOption configures a GroupedSource.
type GroupOption func(*GroupedSource)

// StartIndexFunc returns the index of the first child that may contain
// offset.
type StartIndexFunc func(offset int64) int

// WithStartIndex installs a hook for cold lookups. Lookups scan forward
// from the index it returns, and fall back to a full scan when the hook
// overshoots.
func WithStartIndex(fn StartIndexFunc) GroupOption {
	return func(g *GroupedSource) {
		g.startIndex = fn
	}
}

// WithLifecycle installs hooks that run when the active child changes.
func WithLifecycle(l Lifecycle) GroupOption {
	return func(g *GroupedSource) {
		g.lifecycle = l
	}
}

// GroupedSource presents an ordered set of sources as one contiguous source.
// Child i occupies [firstByte, lastByte] where firstByte is the sum of the
// lengths of children 0..i-1.
//
// The child used by the last read is cached in current. The cache is plain
// mutable state: a GroupedSource must not be used from more than one
// goroutine at a time.
type GroupedSource struct {
	sources    []*sourceEntry
	current    *sourceEntry
	size       int64
	startIndex StartIndexFunc
	lifecycle  Lifecycle
	closed     bool
}

// NewGroupedSource groups sources in order. The group takes ownership of the
// children and closes them on Close.
func NewGroupedSource(sources []RandomAccessSource, opts ...GroupOption) *GroupedSource {
	g := &GroupedSource{
		sources:    make([]*sourceEntry, len(sources)),
		startIndex: func(int64) int { return 0 },
		lifecycle:  nopLifecycle{},
	}
	for _, opt := range opts {
		opt(g)
	}

	var total int64
	for i, s := range sources {
		n := s.Length()
		g.sources[i] = &sourceEntry{
			index:     i,
			source:    s,
			firstByte: total,
			lastByte:  total + n - 1,
		}
		total += n
	}
	g.size = total
	return g
}

// entryFor returns the child owning offset, or nil at or after the end.
func (g *GroupedSource) entryFor(offset int64) (*sourceEntry, error) {
	if offset < 0 || offset >= g.size {
		return nil, nil
	}
	if g.current != nil && g.current.contains(offset) {
		return g.current, nil
	}

	if g.current != nil {
		released := g.current
		g.current = nil
		if err := g.lifecycle.SourceReleased(released.source); err != nil {
			return nil, err
		}
	}

	start := g.startIndex(offset)
	if start < 0 || start >= len(g.sources) {
		start = 0
	}
	for i := start; i < len(g.sources); i++ {
		if g.sources[i].contains(offset) {
			return g.use(g.sources[i])
		}
	}
	for i := 0; i < start; i++ {
		if g.sources[i].contains(offset) {
			return g.use(g.sources[i])
		}
	}
	return nil, nil
}

func (g *GroupedSource) use(e *sourceEntry) (*sourceEntry, error) {
	g.current = e
	if err := g.lifecycle.SourceInUse(e.source); err != nil {
		return nil, err
	}
	return e, nil
}

// Get returns the byte at position, or EOF.
func (g *GroupedSource) Get(position int64) (int, error) {
	if g.closed {
		return EOF, ErrClosed
	}
	e, err := g.entryFor(position)
	if err != nil || e == nil {
		return EOF, err
	}
	return e.source.Get(e.offsetN(position))
}

// GetRange reads up to length bytes starting at position, continuing across
// child boundaries. It returns EOF when no byte could be read, otherwise the
// number of bytes read.
func (g *GroupedSource) GetRange(position int64, b []byte, off, length int) (int, error) {
	if g.closed {
		return EOF, ErrClosed
	}
	if err := checkRange(position, b, off, length); err != nil {
		return EOF, err
	}
	e, err := g.entryFor(position)
	if err != nil || e == nil {
		return EOF, err
	}
	if length == 0 {
		return 0, nil
	}

	offN := e.offsetN(position)
	remaining := length
	for remaining > 0 && e != nil {
		if offN > e.source.Length() {
			break
		}
		n, err := e.source.GetRange(offN, b, off, remaining)
		if err != nil {
			if remaining == length {
				return EOF, err
			}
			break
		}
		if n == EOF {
			break
		}
		off += n
		position += int64(n)
		remaining -= n

		e, err = g.entryFor(position)
		if err != nil || e == nil {
			break
		}
		// a short read leaves position inside the same child
		offN = e.offsetN(position)
	}

	if remaining == length {
		return EOF, nil
	}
	return length - remaining, nil
}

// Length returns the combined length of all children.
func (g *GroupedSource) Length() int64 {
	return g.size
}

// Close closes every child once, whichever was active.
func (g *GroupedSource) Close() error {
	if g.closed {
		return nil
	}
	g.closed = true
	g.current = nil

	var errs []error
	for _, e := range g.sources {
		if err := e.source.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
