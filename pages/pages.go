package pages

import (
	"errors"
	"fmt"
	"math"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/model"
)

// ErrPageTreeCycle is returned when a page tree node is its own ancestor.
var ErrPageTreeCycle = errors.New("page tree contains a cycle")

// inheritable lists the page attributes that may be set on an ancestor.
var inheritable = []string{"Resources", "MediaBox", "CropBox", "Rotate"}

// Letter is the media box used when a page and its ancestors have none.
var Letter = model.NewBBox(0, 0, 612, 792)

// Catalog is the document catalog.
type Catalog struct {
	dict     core.Dict
	resolver core.Resolver
}

// NewCatalog wraps a catalog dictionary.
func NewCatalog(dict core.Dict, r core.Resolver) *Catalog {
	if r == nil {
		r = core.NoResolver
	}
	return &Catalog{dict: dict, resolver: r}
}

// Pages returns the root of the page tree.
func (c *Catalog) Pages() (core.Dict, error) {
	obj := c.dict.Get("Pages")
	if obj == nil {
		return nil, errors.New("catalog missing /Pages entry")
	}
	d, ok := core.ResolveDict(c.resolver, obj)
	if !ok {
		return nil, fmt.Errorf("invalid /Pages entry %s", obj)
	}
	return d, nil
}

// Version returns the /Version entry, which overrides the header version
// of documents updated incrementally. It is "" when absent.
func (c *Catalog) Version() string {
	v, _ := c.dict.GetName("Version")
	return string(v)
}

// PageTree is the flattened page tree.
type PageTree struct {
	root     core.Dict
	resolver core.Resolver
	pages    []*Page
	loaded   bool
}

// NewPageTree returns a tree rooted at the /Pages dictionary root.
func NewPageTree(root core.Dict, r core.Resolver) *PageTree {
	if r == nil {
		r = core.NoResolver
	}
	return &PageTree{root: root, resolver: r}
}

// Count returns the number of pages found in the tree. The /Count entries
// are not trusted.
func (t *PageTree) Count() (int, error) {
	if err := t.load(); err != nil {
		return 0, err
	}
	return len(t.pages), nil
}

// GetPage returns the page at index, counting from 0.
func (t *PageTree) GetPage(index int) (*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	if index < 0 || index >= len(t.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(t.pages))
	}
	return t.pages[index], nil
}

// Pages returns every page in document order.
func (t *PageTree) Pages() ([]*Page, error) {
	if err := t.load(); err != nil {
		return nil, err
	}
	return t.pages, nil
}

func (t *PageTree) load() error {
	if t.loaded {
		return nil
	}
	t.pages = nil
	if err := t.walk(t.root, core.IndirectRef{}, core.Dict{}, map[core.IndirectRef]bool{}); err != nil {
		t.pages = nil
		return fmt.Errorf("traverse page tree: %w", err)
	}
	t.loaded = true
	return nil
}

// walk visits node depth first. inherited holds the inheritable
// attributes of its ancestors and path the references being visited.
func (t *PageTree) walk(node core.Dict, ref core.IndirectRef, inherited core.Dict, path map[core.IndirectRef]bool) error {
	if ref != (core.IndirectRef{}) {
		if path[ref] {
			return fmt.Errorf("%w at %s", ErrPageTreeCycle, ref)
		}
		path[ref] = true
		defer delete(path, ref)
	}

	typ, _ := node.GetName("Type")
	kids := node.Get("Kids")
	if typ == "Page" || (typ == "" && kids == nil) {
		t.pages = append(t.pages, &Page{
			Number:    len(t.pages) + 1,
			Ref:       ref,
			dict:      node,
			inherited: inherited,
			resolver:  t.resolver,
		})
		return nil
	}

	arr, ok := core.ResolveArray(t.resolver, kids)
	if !ok {
		return fmt.Errorf("pages node %s has no /Kids array", ref)
	}
	next := make(core.Dict, len(inheritable))
	for _, key := range inheritable {
		if v := node.Get(key); v != nil {
			next[key] = v
		} else if v := inherited.Get(key); v != nil {
			next[key] = v
		}
	}
	for i, kid := range arr {
		kidRef, _ := kid.(core.IndirectRef)
		d, ok := core.ResolveDict(t.resolver, kid)
		if !ok {
			return fmt.Errorf("kid %d of %s is not a dictionary", i, ref)
		}
		if err := t.walk(d, kidRef, next, path); err != nil {
			return err
		}
	}
	return nil
}

// Page is a single page.
type Page struct {
	// Number is the 1-based position of the page in the document.
	Number int
	// Ref is the page object's reference, zero for direct objects.
	Ref core.IndirectRef

	dict      core.Dict
	inherited core.Dict
	resolver  core.Resolver
}

// NewPage wraps a page dictionary that has no ancestors.
func NewPage(dict core.Dict, r core.Resolver) *Page {
	if r == nil {
		r = core.NoResolver
	}
	return &Page{Number: 1, dict: dict, inherited: core.Dict{}, resolver: r}
}

// Dict returns the page dictionary.
func (p *Page) Dict() core.Dict { return p.dict }

// attr returns an inheritable attribute.
func (p *Page) attr(key string) core.Object {
	if v := p.dict.Get(key); v != nil {
		return v
	}
	return p.inherited.Get(key)
}

func (p *Page) box(key string) (model.BBox, bool) {
	arr, ok := core.ResolveArray(p.resolver, p.attr(key))
	if !ok || len(arr) != 4 {
		return model.BBox{}, false
	}
	var v [4]float64
	for i := range v {
		if v[i], ok = core.ResolveNumber(p.resolver, arr[i]); !ok {
			return model.BBox{}, false
		}
	}
	return model.NewBBoxFromPoints(model.Vector{X: v[0], Y: v[1]}, model.Vector{X: v[2], Y: v[3]}), true
}

// MediaBox returns the page boundary, or Letter when none is set.
func (p *Page) MediaBox() model.BBox {
	if b, ok := p.box("MediaBox"); ok {
		return b
	}
	return Letter
}

// CropBox returns the visible region, clipped to the media box. It
// defaults to the media box.
func (p *Page) CropBox() model.BBox {
	media := p.MediaBox()
	b, ok := p.box("CropBox")
	if !ok {
		return media
	}
	if clipped := b.Intersection(media); !clipped.IsEmpty() {
		return clipped
	}
	return media
}

// Width returns the media box width.
func (p *Page) Width() float64 { return p.MediaBox().Width }

// Height returns the media box height.
func (p *Page) Height() float64 { return p.MediaBox().Height }

// Rotate returns the clockwise rotation, normalised to 0, 90, 180 or 270.
func (p *Page) Rotate() int {
	v, ok := core.ResolveNumber(p.resolver, p.attr("Rotate"))
	if !ok {
		return 0
	}
	r := int(math.Round(v/90)) * 90 % 360
	if r < 0 {
		r += 360
	}
	return r
}

// Resources returns the page resources. A page without resources gets an
// empty dictionary.
func (p *Page) Resources() (core.Dict, error) {
	obj := p.attr("Resources")
	if obj == nil {
		return core.Dict{}, nil
	}
	d, ok := core.ResolveDict(p.resolver, obj)
	if !ok {
		return nil, fmt.Errorf("page %d: invalid /Resources %s", p.Number, obj)
	}
	return d, nil
}

// Contents returns the content streams of the page, in order.
func (p *Page) Contents() ([]*core.Stream, error) {
	obj := p.dict.Get("Contents")
	if obj == nil {
		return nil, nil
	}
	resolved, err := p.resolver.Resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("page %d: resolve /Contents: %w", p.Number, err)
	}

	var items core.Array
	switch v := resolved.(type) {
	case *core.Stream:
		return []*core.Stream{v}, nil
	case core.Array:
		items = v
	case core.Null:
		return nil, nil
	default:
		return nil, fmt.Errorf("page %d: invalid /Contents type %T", p.Number, resolved)
	}

	streams := make([]*core.Stream, 0, len(items))
	for i, item := range items {
		obj, err := p.resolver.Resolve(item)
		if err != nil {
			return nil, fmt.Errorf("page %d: resolve contents[%d]: %w", p.Number, i, err)
		}
		s, ok := obj.(*core.Stream)
		if !ok {
			return nil, fmt.Errorf("page %d: contents[%d] is %T, not a stream", p.Number, i, obj)
		}
		streams = append(streams, s)
	}
	return streams, nil
}

// Content returns the decoded content streams joined by newlines, so an
// operator split across two streams is not glued to its neighbour.
func (p *Page) Content() ([]byte, error) {
	streams, err := p.Contents()
	if err != nil {
		return nil, err
	}
	var out []byte
	for i, s := range streams {
		data, err := s.DecodeWith(p.resolver)
		if err != nil {
			return nil, fmt.Errorf("page %d: decode contents[%d]: %w", p.Number, i, err)
		}
		if i > 0 {
			out = append(out, '\n')
		}
		out = append(out, data...)
	}
	return out, nil
}
