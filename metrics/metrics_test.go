package metrics

import (
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestMemoryCount tests accumulation of counters.
func TestMemoryCount(t *testing.T) {
	m := NewMemory()
	m.Count(BytesRead, 10)
	m.Count(BytesRead, 5)
	m.Count(TextRenders, 1)

	want := map[string]int64{BytesRead: 15, TextRenders: 1}
	if diff := cmp.Diff(want, m.Snapshot()); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}
	// pdf.render.text sorts before pdf.source.bytes_read
	if diff := cmp.Diff([]string{TextRenders, BytesRead}, m.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}

	m.Reset()
	if v := m.Value(BytesRead); v != 0 {
		t.Errorf("expected 0 after reset, got %d", v)
	}
}

// TestMemoryConcurrent tests that Memory can be shared between goroutines.
func TestMemoryConcurrent(t *testing.T) {
	m := NewMemory()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Count(OperatorsProcessed, 1)
			}
		}()
	}
	wg.Wait()
	if v := m.Value(OperatorsProcessed); v != 800 {
		t.Errorf("expected 800, got %d", v)
	}
}

// TestOrNop tests the nil fallback.
func TestOrNop(t *testing.T) {
	if OrNop(nil) != Nop {
		t.Error("expected Nop for nil reporter")
	}
	m := NewMemory()
	if OrNop(m) != Reporter(m) {
		t.Error("expected reporter to be returned unchanged")
	}
	Nop.Count("x", 1)
}
