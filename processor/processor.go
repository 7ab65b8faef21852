package processor

import (
	"errors"
	"log/slog"

	"github.com/tsawler/pdftext/contentstream"
	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/graphicsstate"
	"github.com/tsawler/pdftext/metrics"
)

// MaxFormDepth bounds nested form XObjects, so a form that draws itself
// terminates.
const MaxFormDepth = 32

// Processor interprets content streams for one listener. It is not safe
// for concurrent use.
type Processor struct {
	listener RenderListener
	paths    PathListener
	marked   MarkedContentListener

	operators map[string]ContentOperator
	xobjects  map[string]XObjectDoHandler

	gs        *graphicsstate.GraphicsState
	text      *graphicsstate.TextObject
	path      *graphicsstate.Path
	resources []core.Dict
	content   []markedContent
	fonts     map[core.IndirectRef]font.Font
	depth     int
	floor     int // saved states below this belong to an enclosing stream

	logger   *slog.Logger
	metrics  metrics.Reporter
	resolver core.Resolver
}

type markedContent struct {
	tag   string
	props core.Dict
	mcid  int
}

// New returns a processor that reports to listener, with the standard
// operators and XObject handlers registered.
func New(listener RenderListener, opts ...Option) *Processor {
	o := newOptions(opts)
	p := &Processor{
		listener:  listener,
		operators: defaultOperators(),
		xobjects:  defaultXObjectHandlers(),
		logger:    o.logger,
		metrics:   o.metrics,
		resolver:  o.resolver,
	}
	p.paths, _ = listener.(PathListener)
	p.marked, _ = listener.(MarkedContentListener)
	p.Reset()
	return p
}

// Reset clears all per-stream state so the processor can be reused for
// another page. Registered operators and handlers are kept.
func (p *Processor) Reset() {
	p.gs = graphicsstate.New()
	p.text = graphicsstate.NewTextObject()
	p.path = graphicsstate.NewPath()
	p.resources = nil
	p.content = nil
	p.fonts = make(map[core.IndirectRef]font.Font)
	p.depth = 0
	p.floor = 0
}

// RegisterContentOperator installs op for the named operator and returns
// the handler it replaces, or nil. Registering under DefaultOperator
// replaces the handler for unknown operators. A nil op removes the handler.
func (p *Processor) RegisterContentOperator(name string, op ContentOperator) ContentOperator {
	prev := p.operators[name]
	if op == nil {
		delete(p.operators, name)
	} else {
		p.operators[name] = op
	}
	return prev
}

// RegisterXObjectDoHandler installs h for an XObject subtype such as
// "Form" or "Image" and returns the handler it replaces, or nil.
func (p *Processor) RegisterXObjectDoHandler(subtype string, h XObjectDoHandler) XObjectDoHandler {
	prev := p.xobjects[subtype]
	if h == nil {
		delete(p.xobjects, subtype)
	} else {
		p.xobjects[subtype] = h
	}
	return prev
}

// ProcessContent interprets content with the given resources. It returns a
// *ResourceError when a font or XObject is missing, or the error of a
// custom operator; malformed operators are skipped.
func (p *Processor) ProcessContent(content []byte, resources core.Dict) error {
	p.resources = append(p.resources, resources)
	defer func() { p.resources = p.resources[:len(p.resources)-1] }()

	parser := contentstream.NewParser(content)
	for {
		op, ok := parser.Next()
		if !ok {
			break
		}
		if err := p.invoke(op); err != nil {
			return err
		}
	}
	if n := parser.Skipped(); n > 0 {
		p.logger.Debug("skipped malformed content tokens", "count", n)
	}
	return nil
}

func (p *Processor) invoke(op contentstream.Operation) error {
	p.metrics.Count(metrics.OperatorsProcessed, 1)
	handler, ok := p.operators[op.Operator]
	if !ok {
		handler = p.operators[DefaultOperator]
		if handler == nil {
			return nil
		}
	}
	err := handler.Invoke(p, op)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidOperands) {
		p.logger.Debug("skipping operator", "operator", op.Operator, "error", err)
		p.metrics.Count(metrics.SkippedOperators, 1)
		return nil
	}
	return err
}

// GraphicsState returns the current graphics state.
func (p *Processor) GraphicsState() *graphicsstate.GraphicsState { return p.gs }

// TextObject returns the current text matrices.
func (p *Processor) TextObject() *graphicsstate.TextObject { return p.text }

// Listener returns the listener events are reported to.
func (p *Processor) Listener() RenderListener { return p.listener }

// Resolver returns the resolver used for indirect references.
func (p *Processor) Resolver() core.Resolver { return p.resolver }

// Logger returns the processor's logger.
func (p *Processor) Logger() *slog.Logger { return p.logger }

// Resources returns the resources of the stream being processed.
func (p *Processor) Resources() core.Dict {
	if len(p.resources) == 0 {
		return nil
	}
	return p.resources[len(p.resources)-1]
}

// lookupResource finds name in the given resource category, searching the
// current resources first and then the enclosing ones.
func (p *Processor) lookupResource(category, name string) (core.Object, bool) {
	for i := len(p.resources) - 1; i >= 0; i-- {
		sub, ok := core.ResolveDict(p.resolver, p.resources[i].Get(category))
		if !ok {
			continue
		}
		if obj := sub.Get(name); obj != nil {
			return obj, true
		}
	}
	return nil, false
}

// loadFont resolves and caches a font resource.
func (p *Processor) loadFont(name string) (font.Font, error) {
	obj, ok := p.lookupResource("Font", name)
	if !ok {
		return nil, missing("Font", name)
	}
	ref, isRef := obj.(core.IndirectRef)
	if isRef {
		if f, ok := p.fonts[ref]; ok {
			return f, nil
		}
	}
	dict, ok := core.ResolveDict(p.resolver, obj)
	if !ok {
		return nil, missing("Font", name)
	}
	f, err := font.Load(dict, p.resolver)
	if err != nil {
		p.logger.Debug("falling back to default font", "font", name, "error", err)
		f = font.Default()
	}
	if isRef {
		p.fonts[ref] = f
	}
	return f, nil
}

// mcid returns the innermost marked content ID, or -1.
func (p *Processor) mcid() int {
	for i := len(p.content) - 1; i >= 0; i-- {
		if p.content[i].mcid >= 0 {
			return p.content[i].mcid
		}
	}
	return -1
}

// showText reports one string and advances the text matrix past it.
func (p *Processor) showText(data []byte) {
	f := p.gs.Text.Font
	if f == nil {
		f = font.Default()
	}
	info := newTextRenderInfo(f.Glyphs(data), p.gs.Text, f, p.text.Matrix, p.gs.CTM, p.mcid())
	p.listener.RenderText(info)
	p.metrics.Count(metrics.TextRenders, 1)
	p.text.Advance(info.width)
}

// processForm runs a nested content stream, such as a form XObject, with
// its own resources. The caller saves and restores the graphics state.
func (p *Processor) processForm(content []byte, resources core.Dict) error {
	if p.depth >= MaxFormDepth {
		p.logger.Debug("form nesting too deep, skipping", "depth", p.depth)
		return nil
	}
	p.depth++
	defer func() { p.depth-- }()
	if resources == nil {
		resources = p.Resources()
	}
	return p.ProcessContent(content, resources)
}

func (p *Processor) renderImage(info *ImageRenderInfo) {
	p.listener.RenderImage(info)
	p.metrics.Count(metrics.ImageRenders, 1)
}

func (p *Processor) paintPath(op PaintOp, rule FillRule) {
	if p.paths != nil && op != NoPaint && !p.path.IsEmpty() {
		p.paths.RenderPath(&PathRenderInfo{
			Operation:   op,
			Rule:        rule,
			Path:        p.path.Clone(),
			CTM:         p.gs.CTM,
			LineWidth:   p.gs.LineWidth,
			StrokeColor: p.gs.StrokeColor,
			FillColor:   p.gs.FillColor,
			MCID:        p.mcid(),
		})
		p.metrics.Count(metrics.PathRenders, 1)
	}
	p.path.Reset()
}
