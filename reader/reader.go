package reader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/pages"
	"github.com/tsawler/pdftext/resolver"
	"github.com/tsawler/pdftext/source"
)

var (
	// ErrNotPDF is returned when no %PDF- header is found.
	ErrNotPDF = errors.New("not a PDF file")
	// ErrEncrypted is returned for encrypted documents, which are not
	// supported.
	ErrEncrypted = errors.New("encrypted documents are not supported")
	// ErrPageOutOfRange is returned for page numbers outside 1..NumPages.
	ErrPageOutOfRange = errors.New("page number out of range")
	// ErrObjectNotFound is returned for objects missing from the
	// cross-reference table.
	ErrObjectNotFound = errors.New("object not found")
)

// Version is a PDF version such as 1.7.
type Version struct {
	Major int
	Minor int
}

// String returns the version as "major.minor".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// headerSearch bounds how far into the file the header may start; some
// producers prepend junk.
const headerSearch = 1024

var headerPattern = regexp.MustCompile(`%PDF-(\d+)\.(\d+)`)

// Reader gives access to the objects and pages of a document. It is not
// safe for concurrent use.
type Reader struct {
	src     source.RandomAccessSource
	ra      *source.Reader
	size    int64
	version Version
	xref    *core.XRefTable

	cache      map[int]core.Object
	objStreams map[int]*core.ObjectStream
	resolver   *resolver.ObjectResolver
	tree       *pages.PageTree

	logger  *slog.Logger
	metrics metrics.Reporter
}

// Open opens the named file.
func Open(path string, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	src, err := source.Open(path, source.WithMetrics(o.metrics))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	r, err := New(src, opts...)
	if err != nil {
		src.Close()
		return nil, err
	}
	return r, nil
}

// FromBytes reads a document held in memory.
func FromBytes(data []byte, opts ...Option) (*Reader, error) {
	return New(source.FromBytes(data), opts...)
}

// New reads a document from src. The Reader takes ownership of src and
// closes it in Close.
func New(src source.RandomAccessSource, opts ...Option) (*Reader, error) {
	o := newOptions(opts)
	r := &Reader{
		src:        src,
		ra:         source.NewReader(src, source.WithMetrics(o.metrics)),
		size:       src.Length(),
		cache:      make(map[int]core.Object),
		objStreams: make(map[int]*core.ObjectStream),
		logger:     o.logger,
		metrics:    o.metrics,
	}
	r.resolver = resolver.NewResolver(r, resolver.WithMetrics(o.metrics))

	version, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	r.version = version

	if err := r.loadXRef(); err != nil {
		return nil, err
	}
	if r.xref.Trailer.Has("Encrypt") {
		return nil, ErrEncrypted
	}
	return r, nil
}

func (r *Reader) readHeader() (Version, error) {
	buf := make([]byte, min(r.size, headerSearch))
	n, err := r.ra.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return Version{}, fmt.Errorf("read header: %w", err)
	}
	m := headerPattern.FindSubmatch(buf[:n])
	if m == nil {
		return Version{}, ErrNotPDF
	}
	major, _ := strconv.Atoi(string(m[1]))
	minor, _ := strconv.Atoi(string(m[2]))
	return Version{Major: major, Minor: minor}, nil
}

// loadXRef follows startxref and the /Prev chain, falling back to a scan
// of the whole file when that fails or yields no catalog.
func (r *Reader) loadXRef() error {
	p := core.NewXRefParser(r.ra, r.size)
	table, err := p.ParseAll()
	if err == nil && table.Trailer.Has("Root") {
		r.xref = table
		return nil
	}
	r.logger.Warn("rebuilding cross-reference table", "error", err)
	rebuilt, rerr := p.Rebuild()
	if rerr != nil {
		if err != nil {
			return fmt.Errorf("load xref: %w", err)
		}
		return fmt.Errorf("rebuild xref: %w", rerr)
	}
	r.xref = rebuilt
	return nil
}

// Close releases the underlying source.
func (r *Reader) Close() error {
	return r.src.Close()
}

// Version returns the document version. A catalog /Version later than
// the header wins.
func (r *Reader) Version() Version {
	v := r.version
	catalog, err := r.Catalog()
	if err != nil {
		return v
	}
	if m := headerPattern.FindStringSubmatch("%PDF-" + catalog.Version()); m != nil {
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		if major > v.Major || (major == v.Major && minor > v.Minor) {
			return Version{Major: major, Minor: minor}
		}
	}
	return v
}

// Trailer returns the trailer dictionary.
func (r *Reader) Trailer() core.Dict { return r.xref.Trailer }

// Resolver returns the resolver that loads objects from this document.
func (r *Reader) Resolver() core.Resolver { return r.resolver }

// Resolve follows obj while it is an indirect reference.
func (r *Reader) Resolve(obj core.Object) (core.Object, error) {
	return r.resolver.Resolve(obj)
}

// GetObject loads object objNum, from the cache when possible.
func (r *Reader) GetObject(objNum int) (core.Object, error) {
	if obj, ok := r.cache[objNum]; ok {
		return obj, nil
	}
	entry, ok := r.xref.Get(objNum)
	if !ok || !entry.InUse() {
		return nil, fmt.Errorf("%w: %d", ErrObjectNotFound, objNum)
	}

	var obj core.Object
	var err error
	switch entry.Type {
	case core.EntryCompressed:
		obj, err = r.compressedObject(objNum, entry.StreamNum)
	default:
		obj, err = r.objectAt(objNum, entry.Offset)
	}
	if err != nil {
		return nil, err
	}
	r.cache[objNum] = obj
	return obj, nil
}

func (r *Reader) objectAt(objNum int, offset int64) (core.Object, error) {
	if offset < 0 || offset >= r.size {
		return nil, fmt.Errorf("object %d: offset %d outside file", objNum, offset)
	}
	p := core.NewParser(io.NewSectionReader(r.ra, offset, r.size-offset))
	p.SetResolver(r.resolver)
	ind, err := p.ParseIndirectObject()
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}
	if ind.Ref.Number != objNum {
		return nil, fmt.Errorf("object %d: found object %d at offset %d", objNum, ind.Ref.Number, offset)
	}
	return ind.Object, nil
}

func (r *Reader) compressedObject(objNum, streamNum int) (core.Object, error) {
	ostm, ok := r.objStreams[streamNum]
	if !ok {
		obj, err := r.GetObject(streamNum)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", streamNum, err)
		}
		s, ok := obj.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("object stream %d is %T", streamNum, obj)
		}
		if ostm, err = core.NewObjectStream(s); err != nil {
			return nil, fmt.Errorf("object stream %d: %w", streamNum, err)
		}
		r.objStreams[streamNum] = ostm
	}
	obj, err := ostm.Object(objNum)
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}
	return obj, nil
}

// Catalog returns the document catalog.
func (r *Reader) Catalog() (*pages.Catalog, error) {
	d, err := r.resolver.ResolveDict(r.xref.Trailer.Get("Root"))
	if err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	return pages.NewCatalog(d, r.resolver), nil
}

// Info returns the document information dictionary, or nil.
func (r *Reader) Info() core.Dict {
	d, _ := core.ResolveDict(r.resolver, r.xref.Trailer.Get("Info"))
	return d
}

// InfoString returns a text entry of the information dictionary, such as
// "Title" or "Author".
func (r *Reader) InfoString(key string) string {
	s, ok := r.Info().GetString(key)
	if !ok {
		return ""
	}
	return font.DecodeTextString(s.Bytes())
}

func (r *Reader) pageTree() (*pages.PageTree, error) {
	if r.tree != nil {
		return r.tree, nil
	}
	catalog, err := r.Catalog()
	if err != nil {
		return nil, err
	}
	root, err := catalog.Pages()
	if err != nil {
		return nil, err
	}
	r.tree = pages.NewPageTree(root, r.resolver)
	return r.tree, nil
}

// NumPages returns the number of pages, or 0 when the page tree cannot be
// read.
func (r *Reader) NumPages() int {
	tree, err := r.pageTree()
	if err != nil {
		r.logger.Warn("page tree unreadable", "error", err)
		return 0
	}
	n, err := tree.Count()
	if err != nil {
		r.logger.Warn("page tree unreadable", "error", err)
		return 0
	}
	return n
}

// Page returns page n, counting from 1.
func (r *Reader) Page(n int) (*pages.Page, error) {
	tree, err := r.pageTree()
	if err != nil {
		return nil, err
	}
	count, err := tree.Count()
	if err != nil {
		return nil, err
	}
	if n < 1 || n > count {
		return nil, fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, n, count)
	}
	return tree.GetPage(n - 1)
}

// PageContent returns the decoded content streams of page n.
func (r *Reader) PageContent(n int) ([]byte, error) {
	p, err := r.Page(n)
	if err != nil {
		return nil, err
	}
	return p.Content()
}

// PageResources returns the resources of page n, including inherited
// ones.
func (r *Reader) PageResources(n int) (core.Dict, error) {
	p, err := r.Page(n)
	if err != nil {
		return nil, err
	}
	return p.Resources()
}

// ClearCache drops cached objects.
func (r *Reader) ClearCache() {
	r.cache = make(map[int]core.Object)
	r.objStreams = make(map[int]*core.ObjectStream)
}
