// Package reader opens PDF documents and drives content processing.
//
// A [Reader] parses the cross-reference data of a document held in a
// [source.RandomAccessSource], loads objects on demand and caches them:
//
//	r, err := reader.Open("document.pdf")
//	if err != nil {
//		return err
//	}
//	defer r.Close()
//
//	for n := 1; n <= r.NumPages(); n++ {
//		s, err := reader.ExtractText(r, n, nil)
//		...
//	}
//
// Files whose cross-reference table is damaged are recovered by scanning
// for object headers.
//
// # Content processing
//
// [ContentParser] feeds the decoded content of a page to a
// [processor.Processor] bound to any render listener and returns that
// listener, so strategies can be reused or chained:
//
//	cp := reader.NewContentParser(r)
//	s, err := reader.ProcessContent(cp, 1, text.NewLocationTextExtractionStrategy(), nil)
//
// Pages are numbered from 1.
package reader
