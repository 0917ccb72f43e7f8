package sheets

import (
	"context"

	"github.com/jeongminsang/travelnote-jp/internal/core"
)

// ScheduleMirror replaces the backup sheet contents with the given items.
// Items arrive sorted by day and start time; the mirror writes a header row
// followed by one row per item.
type ScheduleMirror interface {
	Replace(ctx context.Context, items []core.ScheduleItem) error
}
