package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
)

var _ gateway.ScheduleStore = (*Repository)(nil)

const scheduleColumns = "id, day, start_time, end_time, type, title, location, location_url, note, cost, is_completed"

// ListSchedules returns every schedule record ordered by day, then start
// time, matching the order the state store expects on load.
func (r *Repository) ListSchedules(ctx context.Context) ([]core.ScheduleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules ORDER BY day ASC, start_time ASC`)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var out []core.ScheduleRecord
	for rows.Next() {
		rec, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

// InsertSchedule stores a new record under a freshly assigned uuid and
// returns the stored shape.
func (r *Repository) InsertSchedule(ctx context.Context, rec core.ScheduleRecord) (core.ScheduleRecord, error) {
	rec.ID = uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO schedules (`+scheduleColumns+`, synced)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		rec.ID, rec.Day, nullable(rec.StartTime), nullable(rec.EndTime), string(rec.Type),
		rec.Title, nullable(rec.Location), nullable(rec.LocationURL), nullable(rec.Note),
		rec.Cost, rec.IsCompleted)
	if err != nil {
		return core.ScheduleRecord{}, fmt.Errorf("insert schedule: %w", err)
	}

	slog.InfoContext(ctx, "Schedule saved",
		"id", rec.ID,
		"day", rec.Day,
		"title", rec.Title,
		"cost", rec.Cost)
	return rec, nil
}

// UpdateSchedule overwrites the record with the given ID and resets its sync
// flag so the backup worker picks it up again.
func (r *Repository) UpdateSchedule(ctx context.Context, rec core.ScheduleRecord) (core.ScheduleRecord, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules
		 SET day = ?, start_time = ?, end_time = ?, type = ?, title = ?,
		     location = ?, location_url = ?, note = ?, cost = ?, is_completed = ?, synced = 0
		 WHERE id = ?`,
		rec.Day, nullable(rec.StartTime), nullable(rec.EndTime), string(rec.Type), rec.Title,
		nullable(rec.Location), nullable(rec.LocationURL), nullable(rec.Note),
		rec.Cost, rec.IsCompleted, rec.ID)
	if err != nil {
		return core.ScheduleRecord{}, fmt.Errorf("update schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ScheduleRecord{}, gateway.ErrNotFound
	}
	return rec, nil
}

// SetScheduleCompleted flips only the completion flag.
func (r *Repository) SetScheduleCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE schedules SET is_completed = ?, synced = 0 WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("set schedule completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// DeleteSchedule removes the record with the given ID.
func (r *Repository) DeleteSchedule(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM schedules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	slog.InfoContext(ctx, "Schedule deleted", "id", id)
	return nil
}

// GetSchedule returns a single record by ID.
func (r *Repository) GetSchedule(ctx context.Context, id string) (core.ScheduleRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+scheduleColumns+` FROM schedules WHERE id = ?`, id)
	rec, err := scanSchedule(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ScheduleRecord{}, gateway.ErrNotFound
	}
	if err != nil {
		return core.ScheduleRecord{}, fmt.Errorf("get schedule: %w", err)
	}
	return rec, nil
}

// PendingSyncCount reports how many schedule rows changed since the last
// successful backup mirror.
func (r *Repository) PendingSyncCount(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM schedules WHERE synced = 0`).Scan(&n); err != nil {
		return 0, fmt.Errorf("pending sync count: %w", err)
	}
	return n, nil
}

// MarkAllSynced clears the pending flag after a successful full mirror.
func (r *Repository) MarkAllSynced(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE schedules SET synced = 1 WHERE synced = 0`); err != nil {
		return fmt.Errorf("mark schedules synced: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (core.ScheduleRecord, error) {
	var (
		rec                          core.ScheduleRecord
		typ                          string
		start, end, loc, locURL, note sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.Day, &start, &end, &typ, &rec.Title,
		&loc, &locURL, &note, &rec.Cost, &rec.IsCompleted)
	if err != nil {
		return core.ScheduleRecord{}, err
	}
	rec.StartTime = fromNull(start)
	rec.EndTime = fromNull(end)
	rec.Type = core.ScheduleType(typ)
	rec.Location = fromNull(loc)
	rec.LocationURL = fromNull(locURL)
	rec.Note = fromNull(note)
	return rec, nil
}
