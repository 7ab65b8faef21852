package text

import (
	"github.com/tsawler/pdftext/model"
	"github.com/tsawler/pdftext/processor"
)

// RenderFilter decides which events reach a filtered strategy.
type RenderFilter interface {
	AllowText(info *processor.TextRenderInfo) bool
	AllowImage(info *processor.ImageRenderInfo) bool
}

// RegionFilter passes text whose baseline crosses Region and images that
// overlap it.
type RegionFilter struct {
	Region model.BBox
}

// AllowText implements RenderFilter.
func (f RegionFilter) AllowText(info *processor.TextRenderInfo) bool {
	return segmentIntersects(info.Baseline(), f.Region)
}

// AllowImage implements RenderFilter.
func (f RegionFilter) AllowImage(info *processor.ImageRenderInfo) bool {
	ctm := info.CTM()
	box := model.BBoxOf(
		model.Vector{}.Transform(ctm),
		model.Vector{X: 1}.Transform(ctm),
		model.Vector{Y: 1}.Transform(ctm),
		model.Vector{X: 1, Y: 1}.Transform(ctm),
	)
	return box.Intersects(f.Region)
}

// VisibleTextFilter drops text drawn with rendering mode 3, which paints
// nothing. Such text is usually an OCR layer over a scanned page.
type VisibleTextFilter struct{}

// AllowText implements RenderFilter.
func (VisibleTextFilter) AllowText(info *processor.TextRenderInfo) bool {
	return info.RenderMode() != 3
}

// AllowImage implements RenderFilter.
func (VisibleTextFilter) AllowImage(*processor.ImageRenderInfo) bool { return true }

// FilteredListener forwards to a strategy only the events every filter
// allows.
type FilteredListener struct {
	delegate Strategy
	filters  []RenderFilter
}

// NewFilteredListener wraps delegate with filters.
func NewFilteredListener(delegate Strategy, filters ...RenderFilter) *FilteredListener {
	return &FilteredListener{delegate: delegate, filters: filters}
}

// BeginTextBlock implements processor.RenderListener.
func (l *FilteredListener) BeginTextBlock() { l.delegate.BeginTextBlock() }

// EndTextBlock implements processor.RenderListener.
func (l *FilteredListener) EndTextBlock() { l.delegate.EndTextBlock() }

// RenderText implements processor.RenderListener.
func (l *FilteredListener) RenderText(info *processor.TextRenderInfo) {
	for _, f := range l.filters {
		if !f.AllowText(info) {
			return
		}
	}
	l.delegate.RenderText(info)
}

// RenderImage implements processor.RenderListener.
func (l *FilteredListener) RenderImage(info *processor.ImageRenderInfo) {
	for _, f := range l.filters {
		if !f.AllowImage(info) {
			return
		}
	}
	l.delegate.RenderImage(info)
}

// ResultantText implements Strategy.
func (l *FilteredListener) ResultantText() string { return l.delegate.ResultantText() }

// segmentIntersects clips s against box (Liang-Barsky) and reports
// whether any part of it remains.
func segmentIntersects(s model.LineSegment, box model.BBox) bool {
	d := s.Direction()
	t0, t1 := 0.0, 1.0
	clip := func(p, q float64) bool {
		if p == 0 {
			return q >= 0
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		} else {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		}
		return true
	}
	return clip(-d.X, s.Start.X-box.Left()) &&
		clip(d.X, box.Right()-s.Start.X) &&
		clip(-d.Y, s.Start.Y-box.Bottom()) &&
		clip(d.Y, box.Top()-s.Start.Y)
}
