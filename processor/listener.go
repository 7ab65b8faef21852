package processor

import "github.com/tsawler/pdftext/core"

// RenderListener receives the rendering events of a content stream.
type RenderListener interface {
	// BeginTextBlock is called at BT.
	BeginTextBlock()
	// RenderText is called once per string shown. The info is only valid
	// for the duration of the call.
	RenderText(info *TextRenderInfo)
	// EndTextBlock is called at ET.
	EndTextBlock()
	// RenderImage is called for image XObjects and inline images.
	RenderImage(info *ImageRenderInfo)
}

// PathListener is implemented by listeners that want painted paths.
type PathListener interface {
	RenderPath(info *PathRenderInfo)
}

// MarkedContentListener is implemented by listeners that want BMC/BDC/EMC
// brackets.
type MarkedContentListener interface {
	BeginMarkedContent(tag string, props core.Dict)
	EndMarkedContent()
}
