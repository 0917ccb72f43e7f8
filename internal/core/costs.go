// Package core holds the domain model for the travel planner: cost records,
// schedule items, the per-day schedule state and the dashboard aggregation.
//
// This file contains the cost model: a closed six-category breakdown of JPY
// amounts plus the conversion and formatting helpers shared by the dashboard
// and the PDF export.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ExchangeRateKRW is the fixed JPY -> KRW display rate.
const ExchangeRateKRW = 9.45

// Cost category keys. The set is closed: arbitrary keys would break the
// total-sum invariant, so Costs is a struct rather than a map.
const (
	CategoryTransport     = "transport"
	CategoryFood          = "food"
	CategoryEntrance      = "entrance"
	CategoryShoppingSujin = "shopping_sujin"
	CategoryShoppingSeona = "shopping_seona"
	CategoryEtc           = "etc"
)

// Costs is the per-item cost breakdown in whole JPY. All six categories are
// always present; the zero value means "no costs".
type Costs struct {
	Transport     int
	Food          int
	Entrance      int
	ShoppingSujin int
	ShoppingSeona int
	Etc           int
}

// Total returns the sum of all category amounts.
func (c Costs) Total() int {
	return c.Transport + c.Food + c.Entrance + c.ShoppingSujin + c.ShoppingSeona + c.Etc
}

// Get returns the amount for a category key, 0 for unknown keys.
func (c Costs) Get(key string) int {
	switch key {
	case CategoryTransport:
		return c.Transport
	case CategoryFood:
		return c.Food
	case CategoryEntrance:
		return c.Entrance
	case CategoryShoppingSujin:
		return c.ShoppingSujin
	case CategoryShoppingSeona:
		return c.ShoppingSeona
	case CategoryEtc:
		return c.Etc
	}
	return 0
}

// SanitizeCosts builds a full cost record from raw form values. Each of the
// six categories is parsed as a base-10 integer; missing, malformed and
// negative values become 0. Negative input is clamped rather than rejected so
// a sanitized record can never carry a negative total.
func SanitizeCosts(raw map[string]string) Costs {
	return Costs{
		Transport:     sanitizeAmount(raw[CategoryTransport]),
		Food:          sanitizeAmount(raw[CategoryFood]),
		Entrance:      sanitizeAmount(raw[CategoryEntrance]),
		ShoppingSujin: sanitizeAmount(raw[CategoryShoppingSujin]),
		ShoppingSeona: sanitizeAmount(raw[CategoryShoppingSeona]),
		Etc:           sanitizeAmount(raw[CategoryEtc]),
	}
}

func sanitizeAmount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// ToKRW converts a JPY amount to KRW at the fixed rate, rounding half-even to
// the unit so repeated conversions are deterministic.
func ToKRW(jpy int) int {
	return int(math.RoundToEven(float64(jpy) * ExchangeRateKRW))
}

// FormatJPY renders an amount with thousands separators ("12,500").
func FormatJPY(n int) string {
	neg := n < 0
	if neg {
		n = -n
	}
	s := strconv.Itoa(n)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

// FormatKRW converts and formats a JPY amount for the KRW display column.
func FormatKRW(jpy int) string {
	return FormatJPY(ToKRW(jpy))
}

// CostCategory describes one category for charts and the PDF cost table.
type CostCategory struct {
	Key   string
	Label string
	Color string // hex, for chart slices
}

// CostCategories lists the six categories in display order.
var CostCategories = []CostCategory{
	{Key: CategoryTransport, Label: "교통", Color: "#4f46e5"},
	{Key: CategoryFood, Label: "식사", Color: "#f97316"},
	{Key: CategoryEntrance, Label: "입장", Color: "#10b981"},
	{Key: CategoryShoppingSujin, Label: "수진 쇼핑", Color: "#ec4899"},
	{Key: CategoryShoppingSeona, Label: "선아 쇼핑", Color: "#a855f7"},
	{Key: CategoryEtc, Label: "기타 비용", Color: "#6b7280"},
}

// CostLabel returns the display label for a category key, falling back to the
// key itself for unknown keys.
func CostLabel(key string) string {
	for _, c := range CostCategories {
		if c.Key == key {
			return c.Label
		}
	}
	return key
}
