package core

// ChartDatum is one slice of the category chart: derived, never persisted.
// Zero-value categories are excluded before it is built.
type ChartDatum struct {
	Key        string
	Label      string
	Color      string
	Value      int
	Percentage float64
}

// TripStats is the aggregate the dashboard and the PDF export consume.
// PerDay always carries every requested day, zero or not; PerCategory always
// carries all six categories.
type TripStats struct {
	TotalJPY    int
	PerDay      map[int]int
	PerCategory map[string]int
	Chart       []ChartDatum
}

// ComputeTripStats folds a schedule snapshot into totals and chart data. It
// is a pure function over the snapshot; callers recompute after every state
// change instead of updating incrementally.
func ComputeTripStats(schedule map[int][]ScheduleItem, days []int) TripStats {
	stats := TripStats{
		PerDay:      make(map[int]int, len(days)),
		PerCategory: make(map[string]int, len(CostCategories)),
	}
	for _, d := range days {
		stats.PerDay[d] = 0
	}
	for _, c := range CostCategories {
		stats.PerCategory[c.Key] = 0
	}

	for day, items := range schedule {
		for _, it := range items {
			stats.PerDay[day] += it.Costs.Total()
			stats.TotalJPY += it.Costs.Total()
			for _, c := range CostCategories {
				stats.PerCategory[c.Key] += it.Costs.Get(c.Key)
			}
		}
	}

	for _, c := range CostCategories {
		value := stats.PerCategory[c.Key]
		if value == 0 {
			continue
		}
		pct := 0.0
		if stats.TotalJPY > 0 {
			pct = float64(value) / float64(stats.TotalJPY) * 100
		}
		stats.Chart = append(stats.Chart, ChartDatum{
			Key:        c.Key,
			Label:      c.Label,
			Color:      c.Color,
			Value:      value,
			Percentage: pct,
		})
	}
	return stats
}
