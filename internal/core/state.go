package core

import (
	"sort"
	"sync"
)

// ScheduleState is the in-memory index of schedule items keyed by trip day.
// Every day in TripDays always has a bucket, even when empty; buckets stay
// sorted by start time after every mutation. The state is owned by the
// schedule service and safe for concurrent readers.
type ScheduleState struct {
	mu   sync.RWMutex
	days map[int][]ScheduleItem
}

// NewScheduleState returns a state with all trip-day buckets present and
// empty.
func NewScheduleState() *ScheduleState {
	s := &ScheduleState{days: make(map[int][]ScheduleItem, len(TripDays))}
	for _, d := range TripDays {
		s.days[d] = nil
	}
	return s
}

// Load clears the state and rebuilds it from persisted records. Records whose
// day falls outside the fixed trip days get a bucket created on the fly; the
// stored data wins over the fixed set for compatibility with old rows.
func (s *ScheduleState) Load(records []ScheduleRecord) {
	items := make([]ScheduleItem, 0, len(records))
	for _, r := range records {
		items = append(items, ItemFromRecord(r))
	}
	s.LoadItems(items)
}

// LoadItems clears the state and rebuilds it from already-mapped items.
func (s *ScheduleState) LoadItems(items []ScheduleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days = make(map[int][]ScheduleItem, len(TripDays))
	for _, d := range TripDays {
		s.days[d] = nil
	}
	for _, it := range items {
		s.days[it.Day] = append(s.days[it.Day], it)
	}
	for d := range s.days {
		sortBucket(s.days[d])
	}
}

// Upsert replaces the item in its day bucket by ID, or appends it, then
// re-sorts that bucket. If the item moved to a different day since the last
// upsert it is removed from every other bucket first; day is part of the
// bucket key, so overwrite semantics alone would leave a duplicate behind.
func (s *ScheduleState) Upsert(item ScheduleItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for d, items := range s.days {
		if d == item.Day {
			continue
		}
		s.days[d] = deleteByID(items, item.ID)
	}

	bucket := s.days[item.Day]
	replaced := false
	for i := range bucket {
		if bucket[i].ID == item.ID {
			bucket[i] = item
			replaced = true
			break
		}
	}
	if !replaced {
		bucket = append(bucket, item)
	}
	sortBucket(bucket)
	s.days[item.Day] = bucket
}

// Remove filters the item out of the given day's bucket. Removing an ID that
// is not present is a no-op.
func (s *ScheduleState) Remove(id string, day int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.days[day] = deleteByID(s.days[day], id)
}

// Items returns a copy of the bucket for one day.
func (s *ScheduleState) Items(day int) []ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ScheduleItem, len(s.days[day]))
	copy(out, s.days[day])
	return out
}

// Days returns the days with a bucket, ascending. This is TripDays unless a
// load created extra buckets.
func (s *ScheduleState) Days() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days := make([]int, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}

// Snapshot returns a copy of the full day -> items mapping for aggregation
// and export. Mutating the copy does not affect the state.
func (s *ScheduleState) Snapshot() map[int][]ScheduleItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[int][]ScheduleItem, len(s.days))
	for d, items := range s.days {
		cp := make([]ScheduleItem, len(items))
		copy(cp, items)
		out[d] = cp
	}
	return out
}

// Len returns the total number of items across all buckets.
func (s *ScheduleState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, items := range s.days {
		n += len(items)
	}
	return n
}

// sortBucket orders items by sortable start time. The sort must be stable:
// equal start times keep their fetch/insertion order.
func sortBucket(items []ScheduleItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].SortKey() < items[j].SortKey()
	})
}

func deleteByID(items []ScheduleItem, id string) []ScheduleItem {
	out := items[:0]
	for _, it := range items {
		if it.ID != id {
			out = append(out, it)
		}
	}
	return out
}
