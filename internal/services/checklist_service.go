package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jeongminsang/travelnote-jp/internal/core"
	"github.com/jeongminsang/travelnote-jp/internal/gateway"
)

// ErrToggleInFlight means a toggle for the same item is still being
// persisted. The caller should drop the click instead of queueing it.
var ErrToggleInFlight = errors.New("toggle already in flight for this item")

// ChecklistService wraps the checklist store. Mutations return the refetched
// category list so callers always render exactly what is persisted.
type ChecklistService struct {
	store gateway.ChecklistStore

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewChecklistService(store gateway.ChecklistStore) *ChecklistService {
	return &ChecklistService{
		store:    store,
		inFlight: make(map[string]struct{}),
	}
}

// List returns one category's items in creation order.
func (s *ChecklistService) List(ctx context.Context, cat core.ChecklistCategory) ([]core.ChecklistItem, error) {
	if !cat.Valid() {
		return nil, core.ErrInvalidCategory
	}
	items, err := s.store.ListChecklist(ctx, cat)
	if err != nil {
		return nil, fmt.Errorf("list checklist: %w", err)
	}
	return items, nil
}

// Create validates and stores a new unchecked item, then returns the
// refreshed category list.
func (s *ChecklistService) Create(ctx context.Context, it core.ChecklistItem) ([]core.ChecklistItem, error) {
	it.Completed = false
	if err := it.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.store.InsertChecklistItem(ctx, it); err != nil {
		return nil, fmt.Errorf("save checklist item: %w", err)
	}
	return s.List(ctx, it.Category)
}

// Update overwrites an item's title and note. The title is trimmed here so
// a whitespace-only value is rejected no matter which caller sends it.
func (s *ChecklistService) Update(ctx context.Context, cat core.ChecklistCategory, id, title, note string) ([]core.ChecklistItem, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, core.ErrEmptyTitle
	}
	note = strings.TrimSpace(note)
	if err := s.store.UpdateChecklistItem(ctx, id, title, note); err != nil {
		return nil, fmt.Errorf("update checklist item: %w", err)
	}
	return s.List(ctx, cat)
}

// Toggle flips an item's completion flag. While a toggle for an item is
// being persisted, further toggles for the same item return
// ErrToggleInFlight; other items are unaffected.
func (s *ChecklistService) Toggle(ctx context.Context, cat core.ChecklistCategory, id string, completed bool) ([]core.ChecklistItem, error) {
	if err := s.beginToggle(id); err != nil {
		return nil, err
	}
	defer s.endToggle(id)

	if err := s.store.SetChecklistCompleted(ctx, id, completed); err != nil {
		return nil, fmt.Errorf("toggle checklist item: %w", err)
	}
	return s.List(ctx, cat)
}

// Delete removes an item and returns the refreshed category list.
func (s *ChecklistService) Delete(ctx context.Context, cat core.ChecklistCategory, id string) ([]core.ChecklistItem, error) {
	if err := s.store.DeleteChecklistItem(ctx, id); err != nil {
		return nil, fmt.Errorf("delete checklist item: %w", err)
	}
	return s.List(ctx, cat)
}

// Progress reports done/total for one category.
func (s *ChecklistService) Progress(ctx context.Context, cat core.ChecklistCategory) (core.ChecklistProgress, error) {
	items, err := s.List(ctx, cat)
	if err != nil {
		return core.ChecklistProgress{}, err
	}
	return core.Progress(items), nil
}

func (s *ChecklistService) beginToggle(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return ErrToggleInFlight
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *ChecklistService) endToggle(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inFlight, id)
}
