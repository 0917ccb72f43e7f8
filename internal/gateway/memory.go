package gateway

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeongminsang/travelnote-jp/internal/core"
)

// ErrNotFound is returned for lookups and mutations on unknown IDs.
var ErrNotFound = errors.New("record not found")

// Memory is an in-memory implementation of both stores. It mirrors the
// SQLite repository's contract (uuid IDs, stored ordering) closely enough
// for handler and service tests.
type Memory struct {
	mu         sync.Mutex
	schedules  []core.ScheduleRecord
	checklists []core.ChecklistItem
	now        func() time.Time
}

var (
	_ ScheduleStore  = (*Memory)(nil)
	_ ChecklistStore = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) ListSchedules(_ context.Context) ([]core.ScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]core.ScheduleRecord(nil), m.schedules...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (m *Memory) InsertSchedule(_ context.Context, r core.ScheduleRecord) (core.ScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r.ID = uuid.NewString()
	m.schedules = append(m.schedules, r)
	return r, nil
}

func (m *Memory) UpdateSchedule(_ context.Context, r core.ScheduleRecord) (core.ScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ID == r.ID {
			m.schedules[i] = r
			return r, nil
		}
	}
	return core.ScheduleRecord{}, ErrNotFound
}

func (m *Memory) SetScheduleCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ID == id {
			m.schedules[i].IsCompleted = completed
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteSchedule(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.schedules {
		if m.schedules[i].ID == id {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) GetSchedule(_ context.Context, id string) (core.ScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.schedules {
		if r.ID == id {
			return r, nil
		}
	}
	return core.ScheduleRecord{}, ErrNotFound
}

func (m *Memory) ListChecklist(_ context.Context, cat core.ChecklistCategory) ([]core.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []core.ChecklistItem
	for _, it := range m.checklists {
		if it.Category == cat {
			out = append(out, it)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (m *Memory) InsertChecklistItem(_ context.Context, it core.ChecklistItem) (core.ChecklistItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it.ID = uuid.NewString()
	it.CreatedAt = m.now()
	m.checklists = append(m.checklists, it)
	return it, nil
}

func (m *Memory) UpdateChecklistItem(_ context.Context, id, title, note string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.checklists {
		if m.checklists[i].ID == id {
			m.checklists[i].Title = title
			m.checklists[i].Note = note
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) SetChecklistCompleted(_ context.Context, id string, completed bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.checklists {
		if m.checklists[i].ID == id {
			m.checklists[i].Completed = completed
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) DeleteChecklistItem(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.checklists {
		if m.checklists[i].ID == id {
			m.checklists = append(m.checklists[:i], m.checklists[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
