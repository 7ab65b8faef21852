// Package pages walks the page tree of a document.
//
// [PageTree] flattens the /Pages hierarchy into a list of [Page] values in
// document order. Attributes that PDF lets pages inherit (Resources,
// MediaBox, CropBox and Rotate) are collected on the way down, so each
// Page answers for itself:
//
//	tree := pages.NewPageTree(pagesDict, resolver)
//	page, err := tree.GetPage(0)
//	content, err := page.Content()
//
// Indirect references are followed through a [core.Resolver]. Loops in the
// tree are detected and reported as errors.
package pages
