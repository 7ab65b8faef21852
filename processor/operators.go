package processor

import (
	"github.com/tsawler/pdftext/contentstream"
	"github.com/tsawler/pdftext/core"
	"github.com/tsawler/pdftext/font"
	"github.com/tsawler/pdftext/metrics"
	"github.com/tsawler/pdftext/model"
)

// DefaultOperator is the registry key of the handler for operators that
// have no handler of their own.
const DefaultOperator = "DefaultOperator"

// ContentOperator handles one content stream operator.
type ContentOperator interface {
	Invoke(p *Processor, op contentstream.Operation) error
}

// ContentOperatorFunc adapts a function to ContentOperator.
type ContentOperatorFunc func(p *Processor, op contentstream.Operation) error

// Invoke calls f(p, op).
func (f ContentOperatorFunc) Invoke(p *Processor, op contentstream.Operation) error {
	return f(p, op)
}

func defaultOperators() map[string]ContentOperator {
	ops := map[string]ContentOperatorFunc{
		DefaultOperator: unknownOperator,

		"q":  saveState,
		"Q":  restoreState,
		"cm": concatMatrix,
		"w":  setLineWidth,
		"gs": setExtGState,

		"g":  setGray(false),
		"G":  setGray(true),
		"rg": setRGB(false),
		"RG": setRGB(true),
		"k":  setCMYK(false),
		"K":  setCMYK(true),

		"BT": beginText,
		"ET": endText,
		"Tc": setCharSpacing,
		"Tw": setWordSpacing,
		"Tz": setHorizontalScaling,
		"TL": setLeading,
		"Tf": setFont,
		"Tr": setRenderMode,
		"Ts": setRise,
		"Td": moveText,
		"TD": moveTextSetLeading,
		"Tm": setTextMatrix,
		"T*": nextLine,
		"Tj": showText,
		"TJ": showTextArray,
		"'":  moveShowText,
		"\"": moveShowTextWithSpacing,

		"Do":  doXObject,
		"BI":  inlineImage,
		"BMC": beginMarkedContent,
		"BDC": beginMarkedContentProps,
		"EMC": endMarkedContent,

		"m":  moveTo,
		"l":  lineTo,
		"c":  curveTo,
		"v":  curveToV,
		"y":  curveToY,
		"h":  closePath,
		"re": rectangle,
		"S":  paint(Stroke, NonZeroWinding, false),
		"s":  paint(Stroke, NonZeroWinding, true),
		"f":  paint(Fill, NonZeroWinding, false),
		"F":  paint(Fill, NonZeroWinding, false),
		"f*": paint(Fill, EvenOdd, false),
		"B":  paint(Fill|Stroke, NonZeroWinding, false),
		"B*": paint(Fill|Stroke, EvenOdd, false),
		"b":  paint(Fill|Stroke, NonZeroWinding, true),
		"b*": paint(Fill|Stroke, EvenOdd, true),
		"n":  paint(NoPaint, NonZeroWinding, false),
	}
	// Operators that are understood but do not affect text or images.
	for _, name := range []string{
		"W", "W*", "d", "i", "j", "J", "M", "ri", "sh",
		"cs", "CS", "sc", "scn", "SC", "SCN",
		"d0", "d1", "BX", "EX", "MP", "DP",
	} {
		ops[name] = ignore
	}

	out := make(map[string]ContentOperator, len(ops))
	for name, op := range ops {
		out[name] = op
	}
	return out
}

func unknownOperator(p *Processor, op contentstream.Operation) error {
	p.metrics.Count(metrics.UnknownOperators, 1)
	p.logger.Debug("unknown operator", "operator", op.Operator)
	return nil
}

func ignore(*Processor, contentstream.Operation) error { return nil }

// numbers returns the last n operands as numbers.
func numbers(op contentstream.Operation, n int) ([]float64, error) {
	if len(op.Operands) < n {
		return nil, operandError(op.Operator, "want %d operands, got %d", n, len(op.Operands))
	}
	args := op.Operands[len(op.Operands)-n:]
	out := make([]float64, n)
	for i, a := range args {
		v, ok := core.Number(a)
		if !ok {
			return nil, operandError(op.Operator, "operand %d is %s, not a number", i, a.Type())
		}
		out[i] = v
	}
	return out, nil
}

func number(op contentstream.Operation) (float64, error) {
	v, err := numbers(op, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}

func lastOperand(op contentstream.Operation) (core.Object, error) {
	if len(op.Operands) == 0 {
		return nil, operandError(op.Operator, "missing operand")
	}
	return op.Operands[len(op.Operands)-1], nil
}

// graphics state

func saveState(p *Processor, _ contentstream.Operation) error {
	p.gs.Save()
	return nil
}

func restoreState(p *Processor, _ contentstream.Operation) error {
	if p.gs.Depth() <= p.floor {
		p.logger.Debug("ignoring Q below form state", "depth", p.gs.Depth())
		return nil
	}
	if err := p.gs.Restore(); err != nil {
		p.logger.Debug("ignoring Q", "error", err)
	}
	return nil
}

func concatMatrix(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 6)
	if err != nil {
		return err
	}
	p.gs.Concat(model.NewMatrix(v[0], v[1], v[2], v[3], v[4], v[5]))
	return nil
}

func setLineWidth(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.LineWidth = v
	return nil
}

// setExtGState applies the /LW and /Font entries of an ExtGState.
func setExtGState(p *Processor, op contentstream.Operation) error {
	obj, err := lastOperand(op)
	if err != nil {
		return err
	}
	name, ok := obj.(core.Name)
	if !ok {
		return operandError(op.Operator, "expected a name")
	}
	ref, ok := p.lookupResource("ExtGState", string(name))
	if !ok {
		p.logger.Debug("ExtGState not found", "name", string(name))
		return nil
	}
	egs, ok := core.ResolveDict(p.resolver, ref)
	if !ok {
		return nil
	}
	if lw, ok := core.ResolveNumber(p.resolver, egs.Get("LW")); ok {
		p.gs.LineWidth = lw
	}
	if fa, ok := core.ResolveArray(p.resolver, egs.Get("Font")); ok && len(fa) == 2 {
		dict, ok1 := core.ResolveDict(p.resolver, fa[0])
		size, ok2 := core.ResolveNumber(p.resolver, fa[1])
		if ok1 && ok2 {
			f, err := loadFontDict(p, fa[0], dict)
			if err == nil {
				p.gs.SetFont("", f, size)
			}
		}
	}
	return nil
}

func setGray(stroke bool) ContentOperatorFunc {
	return func(p *Processor, op contentstream.Operation) error {
		v, err := number(op)
		if err != nil {
			return err
		}
		if stroke {
			p.gs.SetStrokeGray(v)
		} else {
			p.gs.SetFillGray(v)
		}
		return nil
	}
}

func setRGB(stroke bool) ContentOperatorFunc {
	return func(p *Processor, op contentstream.Operation) error {
		v, err := numbers(op, 3)
		if err != nil {
			return err
		}
		if stroke {
			p.gs.SetStrokeRGB(v[0], v[1], v[2])
		} else {
			p.gs.SetFillRGB(v[0], v[1], v[2])
		}
		return nil
	}
}

func setCMYK(stroke bool) ContentOperatorFunc {
	return func(p *Processor, op contentstream.Operation) error {
		v, err := numbers(op, 4)
		if err != nil {
			return err
		}
		if stroke {
			p.gs.SetStrokeCMYK(v[0], v[1], v[2], v[3])
		} else {
			p.gs.SetFillCMYK(v[0], v[1], v[2], v[3])
		}
		return nil
	}
}

// text state

func beginText(p *Processor, _ contentstream.Operation) error {
	p.text.Begin()
	p.listener.BeginTextBlock()
	return nil
}

func endText(p *Processor, _ contentstream.Operation) error {
	p.listener.EndTextBlock()
	return nil
}

func setCharSpacing(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.CharSpacing = v
	return nil
}

func setWordSpacing(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.WordSpacing = v
	return nil
}

func setHorizontalScaling(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.HorizontalScaling = v
	return nil
}

func setLeading(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.Leading = v
	return nil
}

func setRenderMode(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.RenderingMode = int(v)
	return nil
}

func setRise(p *Processor, op contentstream.Operation) error {
	v, err := number(op)
	if err != nil {
		return err
	}
	p.gs.Text.Rise = v
	return nil
}

func setFont(p *Processor, op contentstream.Operation) error {
	if len(op.Operands) < 2 {
		return operandError(op.Operator, "want 2 operands, got %d", len(op.Operands))
	}
	args := op.Operands[len(op.Operands)-2:]
	name, ok := args[0].(core.Name)
	if !ok {
		return operandError(op.Operator, "font operand is %s, not a name", args[0].Type())
	}
	size, ok := core.Number(args[1])
	if !ok {
		return operandError(op.Operator, "size operand is %s, not a number", args[1].Type())
	}
	f, err := p.loadFont(string(name))
	if err != nil {
		return err
	}
	p.gs.SetFont(string(name), f, size)
	return nil
}

// loadFontDict loads a font that is not referenced through a resource name.
func loadFontDict(p *Processor, obj core.Object, dict core.Dict) (font.Font, error) {
	if ref, ok := obj.(core.IndirectRef); ok {
		if f, ok := p.fonts[ref]; ok {
			return f, nil
		}
		f, err := font.Load(dict, p.resolver)
		if err == nil {
			p.fonts[ref] = f
		}
		return f, err
	}
	return font.Load(dict, p.resolver)
}

// text positioning

func moveText(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 2)
	if err != nil {
		return err
	}
	p.text.MoveLine(v[0], v[1])
	return nil
}

func moveTextSetLeading(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 2)
	if err != nil {
		return err
	}
	p.gs.Text.Leading = -v[1]
	p.text.MoveLine(v[0], v[1])
	return nil
}

func setTextMatrix(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 6)
	if err != nil {
		return err
	}
	p.text.SetMatrices(model.NewMatrix(v[0], v[1], v[2], v[3], v[4], v[5]))
	return nil
}

func nextLine(p *Processor, _ contentstream.Operation) error {
	p.text.NextLine(p.gs.Text.Leading)
	return nil
}

// text showing

func stringOperand(op contentstream.Operation) ([]byte, error) {
	obj, err := lastOperand(op)
	if err != nil {
		return nil, err
	}
	s, ok := obj.(core.String)
	if !ok {
		return nil, operandError(op.Operator, "operand is %s, not a string", obj.Type())
	}
	return s.Bytes(), nil
}

func showText(p *Processor, op contentstream.Operation) error {
	data, err := stringOperand(op)
	if err != nil {
		return err
	}
	p.showText(data)
	return nil
}

func showTextArray(p *Processor, op contentstream.Operation) error {
	obj, err := lastOperand(op)
	if err != nil {
		return err
	}
	arr, ok := obj.(core.Array)
	if !ok {
		return operandError(op.Operator, "operand is %s, not an array", obj.Type())
	}
	for _, e := range arr {
		switch v := e.(type) {
		case core.String:
			p.showText(v.Bytes())
		case core.Int, core.Real:
			n, _ := core.Number(v)
			ts := p.gs.Text
			p.text.Advance(-n / 1000 * ts.FontSize * ts.HorizontalScaling / 100)
		}
	}
	return nil
}

func moveShowText(p *Processor, op contentstream.Operation) error {
	data, err := stringOperand(op)
	if err != nil {
		return err
	}
	p.text.NextLine(p.gs.Text.Leading)
	p.showText(data)
	return nil
}

func moveShowTextWithSpacing(p *Processor, op contentstream.Operation) error {
	if len(op.Operands) < 3 {
		return operandError(op.Operator, "want 3 operands, got %d", len(op.Operands))
	}
	args := op.Operands[len(op.Operands)-3:]
	aw, ok1 := core.Number(args[0])
	ac, ok2 := core.Number(args[1])
	s, ok3 := args[2].(core.String)
	if !ok1 || !ok2 || !ok3 {
		return operandError(op.Operator, "want two numbers and a string")
	}
	p.gs.Text.WordSpacing = aw
	p.gs.Text.CharSpacing = ac
	p.text.NextLine(p.gs.Text.Leading)
	p.showText(s.Bytes())
	return nil
}

// XObjects and inline images

func doXObject(p *Processor, op contentstream.Operation) error {
	obj, err := lastOperand(op)
	if err != nil {
		return err
	}
	name, ok := obj.(core.Name)
	if !ok {
		return operandError(op.Operator, "operand is %s, not a name", obj.Type())
	}
	ref, ok := p.lookupResource("XObject", string(name))
	if !ok {
		return missing("XObject", string(name))
	}
	stream, ok := resolveStream(p.resolver, ref)
	if !ok {
		return missing("XObject", string(name))
	}
	subtype, _ := stream.Dict.GetName("Subtype")
	h, ok := p.xobjects[string(subtype)]
	if !ok {
		p.logger.Debug("no handler for XObject subtype", "name", string(name), "subtype", string(subtype))
		return nil
	}
	return h.HandleXObject(p, string(name), stream)
}

func inlineImage(p *Processor, op contentstream.Operation) error {
	if op.Inline == nil {
		return operandError(op.Operator, "missing inline image")
	}
	p.renderImage(&ImageRenderInfo{
		ctm:       p.gs.CTM,
		stream:    op.Inline.Stream(),
		inline:    true,
		resources: p.Resources(),
		resolver:  p.resolver,
		mcid:      p.mcid(),
	})
	return nil
}

// marked content

func beginMarkedContent(p *Processor, op contentstream.Operation) error {
	obj, err := lastOperand(op)
	if err != nil {
		return err
	}
	tag, ok := obj.(core.Name)
	if !ok {
		return operandError(op.Operator, "tag is %s, not a name", obj.Type())
	}
	p.pushMarkedContent(string(tag), nil)
	return nil
}

func beginMarkedContentProps(p *Processor, op contentstream.Operation) error {
	if len(op.Operands) < 2 {
		return operandError(op.Operator, "want 2 operands, got %d", len(op.Operands))
	}
	args := op.Operands[len(op.Operands)-2:]
	tag, ok := args[0].(core.Name)
	if !ok {
		return operandError(op.Operator, "tag is %s, not a name", args[0].Type())
	}
	var props core.Dict
	switch v := args[1].(type) {
	case core.Dict:
		props = v
	case core.Name:
		// a named property list in /Properties
		if ref, ok := p.lookupResource("Properties", string(v)); ok {
			props, _ = core.ResolveDict(p.resolver, ref)
		}
	}
	p.pushMarkedContent(string(tag), props)
	return nil
}

func (p *Processor) pushMarkedContent(tag string, props core.Dict) {
	mc := markedContent{tag: tag, props: props, mcid: -1}
	if v, ok := core.ResolveNumber(p.resolver, props.Get("MCID")); ok {
		mc.mcid = int(v)
	}
	p.content = append(p.content, mc)
	if p.marked != nil {
		p.marked.BeginMarkedContent(tag, props)
	}
}

func endMarkedContent(p *Processor, _ contentstream.Operation) error {
	if len(p.content) == 0 {
		p.logger.Debug("ignoring EMC without BMC")
		return nil
	}
	p.content = p.content[:len(p.content)-1]
	if p.marked != nil {
		p.marked.EndMarkedContent()
	}
	return nil
}

// path construction and painting

func moveTo(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 2)
	if err != nil {
		return err
	}
	p.path.MoveTo(v[0], v[1])
	return nil
}

func lineTo(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 2)
	if err != nil {
		return err
	}
	p.path.LineTo(v[0], v[1])
	return nil
}

func curveTo(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 6)
	if err != nil {
		return err
	}
	p.path.CurveTo(v[0], v[1], v[2], v[3], v[4], v[5])
	return nil
}

func curveToV(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 4)
	if err != nil {
		return err
	}
	p.path.CurveToV(v[0], v[1], v[2], v[3])
	return nil
}

func curveToY(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 4)
	if err != nil {
		return err
	}
	p.path.CurveToY(v[0], v[1], v[2], v[3])
	return nil
}

func closePath(p *Processor, _ contentstream.Operation) error {
	p.path.ClosePath()
	return nil
}

func rectangle(p *Processor, op contentstream.Operation) error {
	v, err := numbers(op, 4)
	if err != nil {
		return err
	}
	p.path.Rectangle(v[0], v[1], v[2], v[3])
	return nil
}

func paint(operation PaintOp, rule FillRule, close bool) ContentOperatorFunc {
	return func(p *Processor, _ contentstream.Operation) error {
		if close {
			p.path.ClosePath()
		}
		p.paintPath(operation, rule)
		return nil
	}
}
