package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jeongminsang/travelnote-jp/internal/amqp"
	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
)

// SyncPublisher publishes schedule change notifications for the backup worker.
type SyncPublisher interface {
	PublishScheduleSync(ctx context.Context, id, kind string) error
}

// ScheduleService orchestrates schedule operations across the store, the
// in-memory day buckets, and the backup pipeline. The store is the source
// of truth; the state mirror is only updated after a confirmed write.
type ScheduleService struct {
	store     gateway.ScheduleStore
	state     *core.ScheduleState
	publisher SyncPublisher
}

func NewScheduleService(store gateway.ScheduleStore, publisher SyncPublisher) *ScheduleService {
	return &ScheduleService{
		store:     store,
		state:     core.NewScheduleState(),
		publisher: publisher,
	}
}

// LoadAll replaces the in-memory buckets with the stored schedule.
func (s *ScheduleService) LoadAll(ctx context.Context) error {
	records, err := s.store.ListSchedules(ctx)
	if err != nil {
		return fmt.Errorf("load schedules: %w", err)
	}
	s.state.Load(records)
	return nil
}

// Days returns the day numbers in ascending order.
func (s *ScheduleService) Days() []int {
	return s.state.Days()
}

// ItemsForDay returns one day's items sorted by start time.
func (s *ScheduleService) ItemsForDay(day int) []core.ScheduleItem {
	return s.state.Items(day)
}

// Snapshot returns a deep copy of all day buckets.
func (s *ScheduleService) Snapshot() map[int][]core.ScheduleItem {
	return s.state.Snapshot()
}

// Stats aggregates costs across all days.
func (s *ScheduleService) Stats() core.TripStats {
	return core.ComputeTripStats(s.state.Snapshot(), s.state.Days())
}

// Create validates and stores a new item, then mirrors the stored shape
// into the day buckets and notifies the backup worker. Storage collapses
// per-category costs into one aggregate, so the mirrored item carries the
// aggregate under the etc category exactly as a reload would.
func (s *ScheduleService) Create(ctx context.Context, item core.ScheduleItem) (core.ScheduleItem, error) {
	rec, err := item.Record()
	if err != nil {
		return core.ScheduleItem{}, err
	}

	saved, err := s.store.InsertSchedule(ctx, rec)
	if err != nil {
		return core.ScheduleItem{}, fmt.Errorf("save schedule item: %w", err)
	}

	stored := core.ItemFromRecord(saved)
	s.state.Upsert(stored)
	s.publish(ctx, stored.ID, amqp.KindUpsert)
	return stored, nil
}

// Update validates and overwrites an existing item. Moving an item across
// days is allowed; the buckets drop the old placement.
func (s *ScheduleService) Update(ctx context.Context, item core.ScheduleItem) (core.ScheduleItem, error) {
	if item.ID == "" {
		return core.ScheduleItem{}, gateway.ErrNotFound
	}
	rec, err := item.Record()
	if err != nil {
		return core.ScheduleItem{}, err
	}

	saved, err := s.store.UpdateSchedule(ctx, rec)
	if err != nil {
		return core.ScheduleItem{}, fmt.Errorf("update schedule item: %w", err)
	}

	stored := core.ItemFromRecord(saved)
	s.state.Upsert(stored)
	s.publish(ctx, stored.ID, amqp.KindUpsert)
	return stored, nil
}

// ToggleComplete flips an item's completion flag.
func (s *ScheduleService) ToggleComplete(ctx context.Context, id string, day int, completed bool) error {
	if err := s.store.SetScheduleCompleted(ctx, id, completed); err != nil {
		return fmt.Errorf("toggle schedule item: %w", err)
	}

	for _, it := range s.state.Items(day) {
		if it.ID == id {
			it.Completed = completed
			s.state.Upsert(it)
			break
		}
	}
	s.publish(ctx, id, amqp.KindUpsert)
	return nil
}

// Delete removes an item from the store and the day buckets.
func (s *ScheduleService) Delete(ctx context.Context, id string, day int) error {
	if err := s.store.DeleteSchedule(ctx, id); err != nil {
		return fmt.Errorf("delete schedule item: %w", err)
	}

	s.state.Remove(id, day)
	s.publish(ctx, id, amqp.KindDelete)
	return nil
}

func (s *ScheduleService) publish(ctx context.Context, id, kind string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishScheduleSync(ctx, id, kind); err != nil {
		// The write already succeeded; the worker's catch-up pass covers
		// the lost message.
		slog.ErrorContext(ctx, "Failed to publish sync message",
			"id", id, "kind", kind, "error", err)
	}
}
