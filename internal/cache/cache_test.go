package cache

import (
	"testing"
	"time"
)

func TestManagerSizesAndSweep(t *testing.T) {
	m := NewManager(nil)
	stats := NewLRUCache[int](4, 10*time.Millisecond)
	docs := NewLRUCache[string](2, time.Minute)
	m.Register("stats", stats)
	m.Register("docs", docs)

	stats.Set("day-1", 1)
	stats.Set("day-2", 2)
	docs.Set("export", "pdf")

	sizes := m.Sizes()
	if sizes["stats"] != 2 || sizes["docs"] != 1 {
		t.Fatalf("Sizes() = %v, want stats=2 docs=1", sizes)
	}

	time.Sleep(20 * time.Millisecond)
	m.sweep()

	sizes = m.Sizes()
	if sizes["stats"] != 0 {
		t.Errorf("stats size after sweep = %d, want 0", sizes["stats"])
	}
	if sizes["docs"] != 1 {
		t.Errorf("docs size after sweep = %d, want 1", sizes["docs"])
	}
}

func TestManagerStop(t *testing.T) {
	m := NewManager(nil)
	m.Register("stats", NewLRUCache[int](2, time.Minute))
	m.StartCleanup(time.Millisecond)

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop() did not return")
	}
}
