// Package gateway defines the ports to the persistence layer. The SQLite
// repository is the production implementation; Memory backs tests and
// DB-less runs.
package gateway

import (
	"context"

	"github.com/jeongminsang/travelnote-jp/internal/core"
)

type (
	// ScheduleStore persists schedule records. Identifiers are assigned by
	// the store on insert.
	ScheduleStore interface {
		// ListSchedules returns every record ordered by day, then start time.
		ListSchedules(ctx context.Context) ([]core.ScheduleRecord, error)
		// InsertSchedule stores a new record and returns it with its ID set.
		InsertSchedule(ctx context.Context, r core.ScheduleRecord) (core.ScheduleRecord, error)
		// UpdateSchedule overwrites the record with the given ID.
		UpdateSchedule(ctx context.Context, r core.ScheduleRecord) (core.ScheduleRecord, error)
		// SetScheduleCompleted flips only the completion flag.
		SetScheduleCompleted(ctx context.Context, id string, completed bool) error
		// DeleteSchedule removes the record with the given ID.
		DeleteSchedule(ctx context.Context, id string) error
		// GetSchedule returns a single record by ID.
		GetSchedule(ctx context.Context, id string) (core.ScheduleRecord, error)
	}

	// ChecklistStore persists checklist items per category.
	ChecklistStore interface {
		// ListChecklist returns one category's items, created_at ascending.
		ListChecklist(ctx context.Context, cat core.ChecklistCategory) ([]core.ChecklistItem, error)
		// InsertChecklistItem stores a new item and returns it with ID and
		// creation time set.
		InsertChecklistItem(ctx context.Context, it core.ChecklistItem) (core.ChecklistItem, error)
		// UpdateChecklistItem overwrites title and note.
		UpdateChecklistItem(ctx context.Context, id, title, note string) error
		// SetChecklistCompleted flips the completion flag.
		SetChecklistCompleted(ctx context.Context, id string, completed bool) error
		// DeleteChecklistItem removes the item with the given ID.
		DeleteChecklistItem(ctx context.Context, id string) error
	}
)
