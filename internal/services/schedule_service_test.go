package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (p *fakePublisher) PublishScheduleSync(_ context.Context, id, kind string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, kind+":"+id)
	return nil
}

func newTestItem(day int, start, title string) core.ScheduleItem {
	return core.ScheduleItem{
		Day:   day,
		Start: start,
		Type:  core.TypeFood,
		Title: title,
		Costs: core.Costs{Food: 1200, Transport: 300},
	}
}

func TestScheduleService_Create(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewScheduleService(gateway.NewMemory(), pub)

	saved, err := svc.Create(context.Background(), newTestItem(2, "09:30", "아침 식사"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if saved.ID == "" {
		t.Fatal("Create() should assign an ID")
	}
	// The stored shape carries the aggregate cost under etc.
	if saved.Costs.Etc != 1500 || saved.Costs.Food != 0 {
		t.Errorf("stored costs = %+v, want aggregate 1500 under Etc", saved.Costs)
	}

	items := svc.ItemsForDay(2)
	if len(items) != 1 || items[0].ID != saved.ID {
		t.Fatalf("day 2 items = %v, want the saved item", items)
	}
	if len(pub.messages) != 1 || pub.messages[0] != "upsert:"+saved.ID {
		t.Errorf("published = %v, want one upsert", pub.messages)
	}
}

func TestScheduleService_CreateValidation(t *testing.T) {
	svc := NewScheduleService(gateway.NewMemory(), nil)

	tests := []struct {
		name    string
		mutate  func(*core.ScheduleItem)
		wantErr error
	}{
		{"empty title", func(it *core.ScheduleItem) { it.Title = "  " }, core.ErrEmptyTitle},
		{"missing start", func(it *core.ScheduleItem) { it.Start = "" }, core.ErrMissingStartTime},
		{"bad clock", func(it *core.ScheduleItem) { it.Start = "25:99" }, core.ErrInvalidTime},
		{"bad day", func(it *core.ScheduleItem) { it.Day = 0 }, core.ErrInvalidDay},
		{"bad type", func(it *core.ScheduleItem) { it.Type = "picnic" }, core.ErrInvalidType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := newTestItem(1, "10:00", "x")
			tt.mutate(&item)
			if _, err := svc.Create(context.Background(), item); !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// Nothing invalid reaches the store or the buckets.
	for _, d := range svc.Days() {
		if len(svc.ItemsForDay(d)) != 0 {
			t.Errorf("day %d has items after rejected saves", d)
		}
	}
}

func TestScheduleService_UpdateMovesDay(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewScheduleService(gateway.NewMemory(), pub)

	saved, err := svc.Create(context.Background(), newTestItem(1, "09:00", "이동"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	moved := saved
	moved.Day = 3
	moved.Start = "14:00"
	if _, err := svc.Update(context.Background(), moved); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(svc.ItemsForDay(1)) != 0 {
		t.Error("item should have left day 1")
	}
	day3 := svc.ItemsForDay(3)
	if len(day3) != 1 || day3[0].Start != "14:00" {
		t.Fatalf("day 3 items = %v", day3)
	}
}

func TestScheduleService_UpdateUnknownID(t *testing.T) {
	svc := NewScheduleService(gateway.NewMemory(), nil)

	item := newTestItem(1, "09:00", "x")
	item.ID = "no-such-id"
	if _, err := svc.Update(context.Background(), item); !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}

	item.ID = ""
	if _, err := svc.Update(context.Background(), item); !errors.Is(err, gateway.ErrNotFound) {
		t.Errorf("Update() with empty ID error = %v, want ErrNotFound", err)
	}
}

func TestScheduleService_ToggleAndDelete(t *testing.T) {
	pub := &fakePublisher{}
	svc := NewScheduleService(gateway.NewMemory(), pub)

	saved, err := svc.Create(context.Background(), newTestItem(1, "09:00", "관광"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.ToggleComplete(context.Background(), saved.ID, 1, true); err != nil {
		t.Fatalf("ToggleComplete() error = %v", err)
	}
	if items := svc.ItemsForDay(1); !items[0].Completed {
		t.Error("item should be completed after toggle")
	}

	if err := svc.Delete(context.Background(), saved.ID, 1); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(svc.ItemsForDay(1)) != 0 {
		t.Error("item should be gone after delete")
	}

	want := []string{"upsert:" + saved.ID, "upsert:" + saved.ID, "delete:" + saved.ID}
	if len(pub.messages) != len(want) {
		t.Fatalf("published %v, want %v", pub.messages, want)
	}
	for i := range want {
		if pub.messages[i] != want[i] {
			t.Errorf("message[%d] = %q, want %q", i, pub.messages[i], want[i])
		}
	}
}

func TestScheduleService_PublishFailureDoesNotFailWrite(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewScheduleService(gateway.NewMemory(), pub)

	saved, err := svc.Create(context.Background(), newTestItem(1, "09:00", "x"))
	if err != nil {
		t.Fatalf("Create() error = %v, want nil despite broker failure", err)
	}
	if len(svc.ItemsForDay(1)) != 1 || saved.ID == "" {
		t.Error("write should have succeeded locally")
	}
}

func TestScheduleService_LoadAllAndStats(t *testing.T) {
	store := gateway.NewMemory()
	seed := NewScheduleService(store, nil)
	for _, it := range []core.ScheduleItem{
		newTestItem(1, "11:00", "점심"),
		newTestItem(1, "09:00", "아침"),
		newTestItem(2, "10:00", "카페"),
	} {
		if _, err := seed.Create(context.Background(), it); err != nil {
			t.Fatalf("seed Create() error = %v", err)
		}
	}

	// A fresh service over the same store reloads everything.
	svc := NewScheduleService(store, nil)
	if err := svc.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}

	day1 := svc.ItemsForDay(1)
	if len(day1) != 2 || day1[0].Start != "09:00" || day1[1].Start != "11:00" {
		t.Fatalf("day 1 items not sorted by start: %v", day1)
	}

	stats := svc.Stats()
	if stats.TotalJPY != 4500 {
		t.Errorf("TotalJPY = %d, want 4500", stats.TotalJPY)
	}
	if stats.PerDay[1] != 3000 || stats.PerDay[2] != 1500 {
		t.Errorf("PerDay = %v", stats.PerDay)
	}
}
