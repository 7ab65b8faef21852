package processor

import (
	"fmt"

	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/model"
)

// XObjectDoHandler handles Do for one XObject subtype.
type XObjectDoHandler interface {
	HandleXObject(p *Processor, name string, stream *core.Stream) error
}

// XObjectDoHandlerFunc adapts a function to XObjectDoHandler.
type XObjectDoHandlerFunc func(p *Processor, name string, stream *core.Stream) error

// HandleXObject calls f(p, name, stream).
func (f XObjectDoHandlerFunc) HandleXObject(p *Processor, name string, stream *core.Stream) error {
	return f(p, name, stream)
}

func defaultXObjectHandlers() map[string]XObjectDoHandler {
	return map[string]XObjectDoHandler{
		"Form":  XObjectDoHandlerFunc(handleForm),
		"Image": XObjectDoHandlerFunc(handleImage),
		"PS":    XObjectDoHandlerFunc(func(*Processor, string, *core.Stream) error { return nil }),
	}
}

// handleForm draws a form XObject: q, concatenate /Matrix, run the form's
// content with its own resources, Q.
func handleForm(p *Processor, name string, stream *core.Stream) error {
	data, err := stream.DecodeWith(p.resolver)
	if err != nil {
		p.logger.Debug("skipping undecodable form", "name", name, "error", err)
		return nil
	}
	matrix := model.Identity()
	if arr, ok := core.ResolveArray(p.resolver, stream.Dict.Get("Matrix")); ok {
		if v, ok := arr.Numbers(); ok && len(v) == 6 {
			matrix = model.NewMatrix(v[0], v[1], v[2], v[3], v[4], v[5])
		}
	}
	resources, _ := core.ResolveDict(p.resolver, stream.Dict.Get("Resources"))

	depth, floor := p.gs.Depth(), p.floor
	p.gs.Save()
	p.gs.Concat(matrix)
	// Q inside the form cannot pop the state saved above or any caller's
	p.floor = p.gs.Depth()
	err = p.processForm(data, resources)
	p.gs.RestoreTo(depth)
	p.floor = floor
	if err != nil {
		return fmt.Errorf("form %s: %w", name, err)
	}
	return nil
}

func handleImage(p *Processor, name string, stream *core.Stream) error {
	p.renderImage(&ImageRenderInfo{
		name:      name,
		ctm:       p.gs.CTM,
		stream:    stream,
		resources: p.Resources(),
		resolver:  p.resolver,
		mcid:      p.mcid(),
	})
	return nil
}
