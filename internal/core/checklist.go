package core

import (
	"errors"
	"strings"
	"time"
)

// Checklist categories. Each category is an independent list.
const (
	ChecklistShopping ChecklistCategory = "shopping"
	ChecklistFood     ChecklistCategory = "food"
)

type ChecklistCategory string

// ChecklistCategories lists the categories in tab order.
var ChecklistCategories = []ChecklistCategory{ChecklistShopping, ChecklistFood}

func (c ChecklistCategory) Valid() bool {
	return c == ChecklistShopping || c == ChecklistFood
}

// Label returns the tab label for a category.
func (c ChecklistCategory) Label() string {
	switch c {
	case ChecklistShopping:
		return "쇼핑리스트"
	case ChecklistFood:
		return "먹킷리스트"
	}
	return string(c)
}

var ErrInvalidCategory = errors.New("invalid checklist category")

// ChecklistItem is one completable entry in a shopping or food checklist.
// Lists are ordered by CreatedAt ascending.
type ChecklistItem struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Completed bool              `json:"is_completed"`
	Note      string            `json:"note"`
	Category  ChecklistCategory `json:"category"`
	CreatedAt time.Time         `json:"created_at"`
}

// Validate checks the presence rules: a trimmed non-empty title and a known
// category. Notes are optional.
func (it ChecklistItem) Validate() error {
	if strings.TrimSpace(it.Title) == "" {
		return ErrEmptyTitle
	}
	if !it.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// ChecklistProgress summarizes completion for one category's list.
type ChecklistProgress struct {
	Done  int
	Total int
}

// Percent returns completion as 0-100, 0 for an empty list.
func (p ChecklistProgress) Percent() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Done) / float64(p.Total) * 100
}

// Progress counts completed items in a list.
func Progress(items []ChecklistItem) ChecklistProgress {
	p := ChecklistProgress{Total: len(items)}
	for _, it := range items {
		if it.Completed {
			p.Done++
		}
	}
	return p
}
