package source

import (
	"fmt"
	"io"

	"github.com/tsawler/pdftext/metrics"
)

// Option configures source construction.
type Option func(*options)

type options struct {
	metrics  metrics.Reporter
	noMmap   bool
	pageSize int64
}

func newOptions(opts []Option) options {
	o := options{metrics: metrics.Nop}
	for _, opt := range opts {
		opt(&o)
	}
	o.metrics = metrics.OrNop(o.metrics)
	return o
}

// WithMetrics reports byte and page counters to r.
func WithMetrics(r metrics.Reporter) Option {
	return func(o *options) {
		o.metrics = r
	}
}

// WithoutMmap makes Open use positional file reads instead of a mapping.
func WithoutMmap() Option {
	return func(o *options) {
		o.noMmap = true
	}
}

// WithPageSize makes Open split the file into pages of n bytes.
func WithPageSize(n int64) Option {
	return func(o *options) {
		o.pageSize = n
	}
}

// Open returns a source for the named file. Files are memory-mapped unless
// WithoutMmap is given; WithPageSize pages the result.
func Open(path string, opts ...Option) (RandomAccessSource, error) {
	o := newOptions(opts)

	var base RandomAccessSource
	if o.noMmap {
		f, err := OpenFile(path)
		if err != nil {
			return nil, err
		}
		base = f
	} else {
		m, err := OpenMmap(path)
		if err != nil {
			return nil, err
		}
		base = m
	}

	if o.pageSize > 0 {
		p, err := NewPagedSource(base, o.pageSize, opts...)
		if err != nil {
			base.Close()
			return nil, err
		}
		return p, nil
	}
	return base, nil
}

// FromBytes returns an in-memory source.
func FromBytes(data []byte) RandomAccessSource {
	return NewArraySource(data)
}

// FromReader reads r to the end and serves the result from memory.
func FromReader(r io.Reader) (RandomAccessSource, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read data: %w", err)
	}
	return NewArraySource(data), nil
}

// Group joins sources into one contiguous source.
func Group(sources ...RandomAccessSource) *GroupedSource {
	return NewGroupedSource(sources)
}
