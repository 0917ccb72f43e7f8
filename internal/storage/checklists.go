package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
)

var _ gateway.ChecklistStore = (*Repository)(nil)

// ListChecklist returns one category's items ordered by creation time
// ascending.
func (r *Repository) ListChecklist(ctx context.Context, cat core.ChecklistCategory) ([]core.ChecklistItem, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, is_completed, note, category, created_at
		 FROM checklists WHERE category = ? ORDER BY created_at ASC`, string(cat))
	if err != nil {
		return nil, fmt.Errorf("list checklist %s: %w", cat, err)
	}
	defer rows.Close()

	var out []core.ChecklistItem
	for rows.Next() {
		var (
			it       core.ChecklistItem
			category string
			note     sql.NullString
		)
		if err := rows.Scan(&it.ID, &it.Title, &it.Completed, &note, &category, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		it.Note = fromNull(note)
		it.Category = core.ChecklistCategory(category)
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list checklist %s: %w", cat, err)
	}
	return out, nil
}

// InsertChecklistItem stores a new item under a fresh uuid with the creation
// timestamp assigned here, and returns the stored shape.
func (r *Repository) InsertChecklistItem(ctx context.Context, it core.ChecklistItem) (core.ChecklistItem, error) {
	it.ID = uuid.NewString()
	it.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO checklists (id, title, is_completed, note, category, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		it.ID, it.Title, it.Completed, nullable(it.Note), string(it.Category), it.CreatedAt)
	if err != nil {
		return core.ChecklistItem{}, fmt.Errorf("insert checklist item: %w", err)
	}

	slog.InfoContext(ctx, "Checklist item saved",
		"id", it.ID,
		"category", it.Category,
		"title", it.Title)
	return it, nil
}

// UpdateChecklistItem overwrites title and note.
func (r *Repository) UpdateChecklistItem(ctx context.Context, id, title, note string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checklists SET title = ?, note = ? WHERE id = ?`, title, nullable(note), id)
	if err != nil {
		return fmt.Errorf("update checklist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// SetChecklistCompleted flips the completion flag.
func (r *Repository) SetChecklistCompleted(ctx context.Context, id string, completed bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE checklists SET is_completed = ? WHERE id = ?`, completed, id)
	if err != nil {
		return fmt.Errorf("set checklist completed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// DeleteChecklistItem removes the item with the given ID.
func (r *Repository) DeleteChecklistItem(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM checklists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete checklist item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return gateway.ErrNotFound
	}
	slog.InfoContext(ctx, "Checklist item deleted", "id", id)
	return nil
}
