package memory

import (
	"context"
	"sync"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	ports "github.com/jeongminsang/travelnote-jp/internal/sheets"
)

// Mirror is an in-memory ScheduleMirror used in tests and local setups
// without Google credentials.
type Mirror struct {
	mu       sync.Mutex
	rows     []core.ScheduleItem
	replaces int
	failWith error
}

var _ ports.ScheduleMirror = (*Mirror)(nil)

func New() *Mirror {
	return &Mirror{}
}

// FailWith makes every subsequent Replace return err. Pass nil to recover.
func (m *Mirror) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// Replace stores a copy of items as the mirrored state.
func (m *Mirror) Replace(_ context.Context, items []core.ScheduleItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.rows = append([]core.ScheduleItem(nil), items...)
	m.replaces++
	return nil
}

// Rows returns the last mirrored items.
func (m *Mirror) Rows() []core.ScheduleItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]core.ScheduleItem(nil), m.rows...)
}

// Replaces returns how many times Replace has succeeded.
func (m *Mirror) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}
