package resolver

import (
	"errors"
	"fmt"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/metrics"
)

var (
	// ErrCircularReference is returned when a reference leads back to
	// itself.
	ErrCircularReference = errors.New("circular reference")
	// ErrMaxDepth is returned when resolution nests deeper than allowed.
	ErrMaxDepth = errors.New("maximum resolution depth exceeded")
)

// ObjectReader loads objects by number.
type ObjectReader interface {
	GetObject(objNum int) (core.Object, error)
}

// ObjectReaderFunc adapts a function to ObjectReader.
type ObjectReaderFunc func(objNum int) (core.Object, error)

// GetObject calls f(objNum).
func (f ObjectReaderFunc) GetObject(objNum int) (core.Object, error) {
	return f(objNum)
}

// ObjectResolver resolves indirect references. It is not safe for
// concurrent use.
type ObjectResolver struct {
	reader   ObjectReader
	maxDepth int
	metrics  metrics.Reporter
}

// Option configures an ObjectResolver.
type Option func(*ObjectResolver)

// WithMaxDepth sets the maximum recursion depth (default 100).
func WithMaxDepth(depth int) Option {
	return func(r *ObjectResolver) {
		r.maxDepth = depth
	}
}

// WithMetrics reports every resolved reference as ObjectsResolved.
func WithMetrics(m metrics.Reporter) Option {
	return func(r *ObjectResolver) {
		r.metrics = metrics.OrNop(m)
	}
}

// NewResolver returns a resolver that loads objects from reader.
func NewResolver(reader ObjectReader, opts ...Option) *ObjectResolver {
	r := &ObjectResolver{
		reader:   reader,
		maxDepth: 100,
		metrics:  metrics.Nop,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ core.Resolver = (*ObjectResolver)(nil)

// Resolve follows obj while it is a reference. Other objects are returned
// unchanged, and their contents are not resolved.
func (r *ObjectResolver) Resolve(obj core.Object) (core.Object, error) {
	seen := make(map[int]bool)
	for depth := 0; ; depth++ {
		ref, ok := obj.(core.IndirectRef)
		if !ok {
			return obj, nil
		}
		if depth >= r.maxDepth {
			return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, r.maxDepth)
		}
		if seen[ref.Number] {
			return nil, fmt.Errorf("%w: object %d", ErrCircularReference, ref.Number)
		}
		seen[ref.Number] = true

		next, err := r.load(ref)
		if err != nil {
			return nil, err
		}
		obj = next
	}
}

// ResolveDeep resolves obj and every reference nested in it. Streams are
// copied with a resolved dictionary; their data is shared.
func (r *ObjectResolver) ResolveDeep(obj core.Object) (core.Object, error) {
	return r.resolveDeep(obj, make(map[int]bool), 0)
}

func (r *ObjectResolver) resolveDeep(obj core.Object, path map[int]bool, depth int) (core.Object, error) {
	if depth >= r.maxDepth {
		return nil, fmt.Errorf("%w (%d)", ErrMaxDepth, r.maxDepth)
	}

	switch v := obj.(type) {
	case core.IndirectRef:
		if path[v.Number] {
			return nil, fmt.Errorf("%w: object %d", ErrCircularReference, v.Number)
		}
		path[v.Number] = true
		defer delete(path, v.Number)

		loaded, err := r.load(v)
		if err != nil {
			return nil, err
		}
		return r.resolveDeep(loaded, path, depth+1)

	case core.Dict:
		out := make(core.Dict, len(v))
		for key, value := range v {
			resolved, err := r.resolveDeep(value, path, depth+1)
			if err != nil {
				return nil, fmt.Errorf("key %s: %w", key, err)
			}
			out[key] = resolved
		}
		return out, nil

	case core.Array:
		out := make(core.Array, len(v))
		for i, elem := range v {
			resolved, err := r.resolveDeep(elem, path, depth+1)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil

	case *core.Stream:
		dict, err := r.resolveDeep(v.Dict, path, depth+1)
		if err != nil {
			return nil, fmt.Errorf("stream dictionary: %w", err)
		}
		return &core.Stream{Dict: dict.(core.Dict), Data: v.Data}, nil
	}
	return obj, nil
}

// ResolveDict resolves obj and returns it if it is a dictionary.
func (r *ObjectResolver) ResolveDict(obj core.Object) (core.Dict, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	d, ok := resolved.(core.Dict)
	if !ok {
		return nil, fmt.Errorf("expected dictionary, got %T", resolved)
	}
	return d, nil
}

// ResolveStream resolves obj and returns it if it is a stream.
func (r *ObjectResolver) ResolveStream(obj core.Object) (*core.Stream, error) {
	resolved, err := r.Resolve(obj)
	if err != nil {
		return nil, err
	}
	s, ok := resolved.(*core.Stream)
	if !ok {
		return nil, fmt.Errorf("expected stream, got %T", resolved)
	}
	return s, nil
}

func (r *ObjectResolver) load(ref core.IndirectRef) (core.Object, error) {
	obj, err := r.reader.GetObject(ref.Number)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", ref, err)
	}
	r.metrics.Count(metrics.ObjectsResolved, 1)
	return obj, nil
}
