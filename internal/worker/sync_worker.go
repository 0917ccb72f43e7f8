package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jeongminsang/travelnote-jp/internal/amqp"
	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/sheets"
)

// ScheduleSource is the slice of the storage layer the worker needs.
type ScheduleSource interface {
	ListSchedules(ctx context.Context) ([]core.ScheduleRecord, error)
	PendingSyncCount(ctx context.Context) (int, error)
	MarkAllSynced(ctx context.Context) error
}

// SyncWorker mirrors the schedule table into a Google Sheets backup tab.
// Every sync message triggers a full rewrite of the tab; items get updated
// and deleted often enough that row-level bookkeeping is not worth it.
type SyncWorker struct {
	source ScheduleSource
	mirror sheets.ScheduleMirror
}

func NewSyncWorker(source ScheduleSource, mirror sheets.ScheduleMirror) *SyncWorker {
	return &SyncWorker{
		source: source,
		mirror: mirror,
	}
}

// HandleSyncMessage processes one schedule sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ScheduleSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"kind", msg.Kind)

	return w.MirrorAll(ctx)
}

// MirrorAll rewrites the backup sheet from the current schedule table and
// clears the pending flags.
func (w *SyncWorker) MirrorAll(ctx context.Context) error {
	records, err := w.source.ListSchedules(ctx)
	if err != nil {
		return fmt.Errorf("list schedules: %w", err)
	}

	items := make([]core.ScheduleItem, 0, len(records))
	for _, r := range records {
		items = append(items, core.ItemFromRecord(r))
	}

	if err := w.mirror.Replace(ctx, items); err != nil {
		return fmt.Errorf("mirror schedules: %w", err)
	}

	if err := w.source.MarkAllSynced(ctx); err != nil {
		slog.ErrorContext(ctx, "Failed to mark schedules as synced", "error", err)
		// The mirror itself succeeded; the next catch-up pass retries the flag.
	}

	slog.InfoContext(ctx, "Schedule backup mirrored", "items", len(items))
	return nil
}

// CatchupIfPending mirrors the sheet when unsynced rows exist. This covers
// lost AMQP messages and worker downtime.
func (w *SyncWorker) CatchupIfPending(ctx context.Context) error {
	pending, err := w.source.PendingSyncCount(ctx)
	if err != nil {
		return fmt.Errorf("count pending schedules: %w", err)
	}
	if pending == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Found unsynced schedules, mirroring", "pending", pending)
	return w.MirrorAll(ctx)
}

// RunPeriodicCatchup runs CatchupIfPending on a ticker until ctx is done.
func (w *SyncWorker) RunPeriodicCatchup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "Stopping periodic catch-up", "reason", ctx.Err())
			return
		case <-ticker.C:
			if err := w.CatchupIfPending(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic catch-up failed", "error", err)
			}
		}
	}
}
