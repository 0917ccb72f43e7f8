package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jeongminsang/travelnote-jp/internal/amqp"
	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/sheets/memory"
)

type fakeSource struct {
	mu      sync.Mutex
	records []core.ScheduleRecord
	pending int
	listErr error
	marked  int
}

func (f *fakeSource) ListSchedules(context.Context) ([]core.ScheduleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]core.ScheduleRecord(nil), f.records...), nil
}

func (f *fakeSource) PendingSyncCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending, nil
}

func (f *fakeSource) MarkAllSynced(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending = 0
	f.marked++
	return nil
}

func TestSyncWorker_HandleSyncMessage(t *testing.T) {
	source := &fakeSource{
		records: []core.ScheduleRecord{
			{ID: "a", Day: 1, StartTime: "09:00:00", Type: core.TypeFood, Title: "아침", Cost: 1200},
			{ID: "b", Day: 1, StartTime: "11:00:00", Type: core.TypeSightseeing, Title: "관광"},
		},
		pending: 1,
	}
	mirror := memory.New()
	w := NewSyncWorker(source, mirror)

	msg := amqp.NewScheduleSyncMessage("a", amqp.KindUpsert)
	if err := w.HandleSyncMessage(context.Background(), msg); err != nil {
		t.Fatalf("HandleSyncMessage() error = %v", err)
	}

	rows := mirror.Rows()
	if len(rows) != 2 {
		t.Fatalf("mirrored %d rows, want 2", len(rows))
	}
	if rows[0].ID != "a" || rows[0].Start != "09:00" || rows[0].Costs.Total() != 1200 {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if source.pending != 0 || source.marked != 1 {
		t.Errorf("pending = %d, marked = %d; want 0 and 1", source.pending, source.marked)
	}
}

func TestSyncWorker_MirrorAllListError(t *testing.T) {
	source := &fakeSource{listErr: errors.New("db locked")}
	w := NewSyncWorker(source, memory.New())

	if err := w.MirrorAll(context.Background()); err == nil {
		t.Fatal("MirrorAll() should fail when listing fails")
	}
	if source.marked != 0 {
		t.Error("MarkAllSynced should not run after a failed list")
	}
}

func TestSyncWorker_MirrorAllMirrorError(t *testing.T) {
	source := &fakeSource{pending: 3}
	mirror := memory.New()
	mirror.FailWith(errors.New("quota exceeded"))
	w := NewSyncWorker(source, mirror)

	if err := w.MirrorAll(context.Background()); err == nil {
		t.Fatal("MirrorAll() should fail when the mirror fails")
	}
	if source.pending != 3 {
		t.Error("pending flags must survive a failed mirror")
	}
}

func TestSyncWorker_CatchupIfPending(t *testing.T) {
	t.Run("no pending rows is a no-op", func(t *testing.T) {
		source := &fakeSource{pending: 0}
		mirror := memory.New()
		w := NewSyncWorker(source, mirror)

		if err := w.CatchupIfPending(context.Background()); err != nil {
			t.Fatalf("CatchupIfPending() error = %v", err)
		}
		if mirror.Replaces() != 0 {
			t.Error("mirror should not run without pending rows")
		}
	})

	t.Run("pending rows trigger a mirror", func(t *testing.T) {
		source := &fakeSource{
			records: []core.ScheduleRecord{{ID: "a", Day: 1, StartTime: "08:00:00", Type: core.TypeEtc, Title: "x"}},
			pending: 1,
		}
		mirror := memory.New()
		w := NewSyncWorker(source, mirror)

		if err := w.CatchupIfPending(context.Background()); err != nil {
			t.Fatalf("CatchupIfPending() error = %v", err)
		}
		if mirror.Replaces() != 1 {
			t.Errorf("Replaces() = %d, want 1", mirror.Replaces())
		}
		if source.pending != 0 {
			t.Errorf("pending = %d, want 0", source.pending)
		}
	})
}
