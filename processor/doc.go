// Package processor interprets PDF content streams and reports what they
// draw to a RenderListener.
//
// A Processor tracks the graphics state stack, the text matrices, marked
// content and the path under construction. Every string shown by Tj, TJ, '
// or " produces exactly one TextRenderInfo; image XObjects and inline images
// produce an ImageRenderInfo. Listeners that also implement PathListener or
// MarkedContentListener receive painted paths and marked-content brackets.
//
// Operators are dispatched through a map that can be changed at run time:
//
//	p := processor.New(listener)
//	prev := p.RegisterContentOperator("Tj", processor.ContentOperatorFunc(
//		func(p *processor.Processor, op contentstream.Operation) error {
//			log.Println("Tj", op.Operands)
//			return prev.Invoke(p, op)
//		}))
//	err := p.ProcessContent(content, resources)
//
// Operators without a handler go to the handler registered under
// DefaultOperator, which by default only counts and logs them. Malformed
// operands are skipped. A font or XObject name that is missing from the
// resources stops processing with a *ResourceError.
package processor
