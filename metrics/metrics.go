// Package metrics provides an injectable counter reporter for the extraction
// pipeline.
//
// Components that want to report counts (bytes read from a source, operators
// dispatched, text and image events emitted) accept a [Reporter] through their
// options. Nothing in this module keeps process-wide counters; callers that do
// not care pass nothing and get [Nop].
//
// [Memory] is a simple in-process implementation suitable for tests and the
// command line tool.
package metrics

import (
	"sort"
	"sync"
)

// Standard metric names emitted by the module.
const (
	BytesRead          = "pdf.source.bytes_read"
	PageSwitches       = "pdf.source.page_switches"
	OperatorsProcessed = "pdf.content.operators"
	UnknownOperators   = "pdf.content.unknown_operators"
	SkippedOperators   = "pdf.content.skipped_operators"
	TextRenders        = "pdf.render.text"
	ImageRenders       = "pdf.render.images"
	PathRenders        = "pdf.render.paths"
	PagesProcessed     = "pdf.pages.processed"
	ObjectsResolved    = "pdf.objects.resolved"
)

// Reporter receives counter increments.
type Reporter interface {
	Count(name string, delta int64)
}

type nop struct{}

func (nop) Count(string, int64) {}

// Nop is a Reporter that discards everything.
var Nop Reporter = nop{}

// OrNop returns r, or Nop when r is nil.
func OrNop(r Reporter) Reporter {
	if r == nil {
		return Nop
	}
	return r
}

// Memory accumulates counters in memory. It is safe for concurrent use so a
// single instance can be shared by independent per-goroutine pipelines.
type Memory struct {
	mu       sync.Mutex
	counters map[string]int64
}

// NewMemory returns an empty Memory reporter.
func NewMemory() *Memory {
	return &Memory{counters: make(map[string]int64)}
}

// Count adds delta to the named counter.
func (m *Memory) Count(name string, delta int64) {
	m.mu.Lock()
	m.counters[name] += delta
	m.mu.Unlock()
}

// Value returns the current value of the named counter.
func (m *Memory) Value(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counters[name]
}

// Snapshot returns a copy of all counters.
func (m *Memory) Snapshot() map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]int64, len(m.counters))
	for k, v := range m.counters {
		out[k] = v
	}
	return out
}

// Names returns the counter names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	names := make([]string, 0, len(m.counters))
	for k := range m.counters {
		names = append(names, k)
	}
	m.mu.Unlock()
	sort.Strings(names)
	return names
}

// Reset clears every counter.
func (m *Memory) Reset() {
	m.mu.Lock()
	m.counters = make(map[string]int64)
	m.mu.Unlock()
}
