// Package text turns rendering events into text.
//
// Every strategy is a [processor.RenderListener] that also reports the
// text it has accumulated:
//
//	s := text.NewSimpleTextExtractionStrategy()
//	p := processor.New(s)
//	if err := p.ProcessContent(content, resources); err != nil {
//		return err
//	}
//	fmt.Println(s.ResultantText())
//
// [SimpleTextExtractionStrategy] keeps the order in which text was drawn
// and only decides between a newline, a space or nothing at each event.
// [LocationTextExtractionStrategy] sorts chunks by position first, which
// suits documents that draw text out of reading order.
//
// [FilteredListener] restricts a strategy to a region or a custom
// [RenderFilter]. [TextMarginFinder] measures the text area of a page and
// [FragmentCollector] keeps positioned [TextFragment] values for layout
// work.
package text
