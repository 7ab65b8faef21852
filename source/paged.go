package source

import (
	"errors"
	"fmt"
	"io"

	"github.com/tsawler/pdftext/metrics"
)

// DefaultPageSize is the page size used by OpenPaged when none is given.
const DefaultPageSize = 1 << 26

// PagedSource splits one backing store into fixed-size pages held in a
// GroupedSource. Page lookups are O(1) because the page index is computed
// from the offset.
type PagedSource struct {
	*GroupedSource
	pageSize int64
	backing  RandomAccessSource
}

// pageCounter reports page switches.
type pageCounter struct {
	metrics metrics.Reporter
}

func (c pageCounter) SourceInUse(RandomAccessSource) error {
	c.metrics.Count(metrics.PageSwitches, 1)
	return nil
}

func (pageCounter) SourceReleased(RandomAccessSource) error { return nil }

// NewPagedSource pages backing into windows of pageSize bytes. The paged
// source owns backing and closes it once on Close.
func NewPagedSource(backing RandomAccessSource, pageSize int64, opts ...Option) (*PagedSource, error) {
	if pageSize <= 0 {
		return nil, fmt.Errorf("invalid page size %d", pageSize)
	}
	o := newOptions(opts)

	size := backing.Length()
	count := int((size + pageSize - 1) / pageSize)
	pages := make([]RandomAccessSource, 0, count)
	for i := 0; i < count; i++ {
		pages = append(pages, borrowedWindow(backing, int64(i)*pageSize, pageSize))
	}

	p := &PagedSource{pageSize: pageSize, backing: backing}
	p.GroupedSource = NewGroupedSource(pages,
		WithStartIndex(func(offset int64) int {
			return int(offset / pageSize)
		}),
		WithLifecycle(pageCounter{metrics: o.metrics}),
	)
	return p, nil
}

// OpenPaged memory-maps the named file and pages it.
func OpenPaged(path string, pageSize int64, opts ...Option) (*PagedSource, error) {
	m, err := OpenMmap(path)
	if err != nil {
		return nil, err
	}
	p, err := NewPagedSource(m, pageSize, opts...)
	if err != nil {
		m.Close()
		return nil, err
	}
	return p, nil
}

// PagedReaderAt pages an arbitrary io.ReaderAt of the given size.
func PagedReaderAt(r io.ReaderAt, size, pageSize int64, opts ...Option) (*PagedSource, error) {
	return NewPagedSource(NewReaderAtSource(r, size), pageSize, opts...)
}

// PageSize returns the configured page size.
func (p *PagedSource) PageSize() int64 {
	return p.pageSize
}

// Close closes the pages and then the backing store.
func (p *PagedSource) Close() error {
	if p.GroupedSource.closed {
		return nil
	}
	return errors.Join(p.GroupedSource.Close(), p.backing.Close())
}
