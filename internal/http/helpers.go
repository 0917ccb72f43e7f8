package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jeongminsang/travelnote-jp/internal/core"
)

// parseDay extracts the trip day from a form or query value. Unknown or
// malformed input falls back to the first trip day.
func parseDay(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return core.TripDays[0]
	}
	d, err := strconv.Atoi(v)
	if err != nil {
		return core.TripDays[0]
	}
	for _, known := range core.TripDays {
		if d == known {
			return d
		}
	}
	return core.TripDays[0]
}

// parseCategory maps a raw category value to a checklist category, defaulting
// to the shopping list.
func parseCategory(v string) core.ChecklistCategory {
	cat := core.ChecklistCategory(strings.TrimSpace(v))
	if !cat.Valid() {
		return core.ChecklistShopping
	}
	return cat
}

// costsFromForm collects the six cost fields from a submitted form. Field
// names match the category keys with a "cost_" prefix.
func costsFromForm(r *http.Request) core.Costs {
	raw := make(map[string]string, len(core.CostCategories))
	for _, c := range core.CostCategories {
		raw[c.Key] = r.Form.Get("cost_" + c.Key)
	}
	return core.SanitizeCosts(raw)
}

// scheduleItemFromForm builds an unsaved schedule item from form values.
// Validation happens in the service layer, not here.
func scheduleItemFromForm(r *http.Request) core.ScheduleItem {
	return core.ScheduleItem{
		ID:          strings.TrimSpace(r.Form.Get("id")),
		Day:         parseDay(r.Form.Get("day")),
		Start:       strings.TrimSpace(r.Form.Get("start")),
		End:         strings.TrimSpace(r.Form.Get("end")),
		Type:        core.ScheduleType(strings.TrimSpace(r.Form.Get("type"))),
		Title:       sanitizeInput(r.Form.Get("title")),
		Location:    sanitizeInput(r.Form.Get("location")),
		LocationURL: strings.TrimSpace(r.Form.Get("location_url")),
		Note:        sanitizeInput(r.Form.Get("note")),
		Costs:       costsFromForm(r),
	}
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
