package core

import "testing"

func TestComputeTripStats(t *testing.T) {
	schedule := map[int][]ScheduleItem{
		1: {
			{ID: "a", Costs: Costs{Etc: 100}},
			{ID: "b", Costs: Costs{Etc: 50}},
		},
		2: {
			{ID: "c", Costs: Costs{Etc: 200}},
		},
		3: nil,
		4: nil,
	}
	stats := ComputeTripStats(schedule, TripDays)

	if stats.TotalJPY != 350 {
		t.Fatalf("total = %d, want 350", stats.TotalJPY)
	}
	wantPerDay := map[int]int{1: 150, 2: 200, 3: 0, 4: 0}
	for d, want := range wantPerDay {
		if got := stats.PerDay[d]; got != want {
			t.Fatalf("perDay[%d] = %d, want %d", d, got, want)
		}
	}
	if got := stats.PerCategory[CategoryEtc]; got != 350 {
		t.Fatalf("perCategory[etc] = %d, want 350", got)
	}
	if len(stats.Chart) != 1 {
		t.Fatalf("chart entries = %d, want 1", len(stats.Chart))
	}
	d := stats.Chart[0]
	if d.Key != CategoryEtc || d.Value != 350 || d.Percentage != 100 {
		t.Fatalf("chart datum = %+v", d)
	}
}

func TestComputeTripStatsEmpty(t *testing.T) {
	stats := ComputeTripStats(map[int][]ScheduleItem{1: nil, 2: nil, 3: nil, 4: nil}, TripDays)
	if stats.TotalJPY != 0 {
		t.Fatalf("total = %d, want 0", stats.TotalJPY)
	}
	if len(stats.Chart) != 0 {
		t.Fatalf("chart = %v, want empty", stats.Chart)
	}
	for _, d := range TripDays {
		if stats.PerDay[d] != 0 {
			t.Fatalf("perDay[%d] = %d, want 0", d, stats.PerDay[d])
		}
	}
}

func TestComputeTripStatsOmitsZeroCategories(t *testing.T) {
	schedule := map[int][]ScheduleItem{
		1: {{ID: "a", Costs: Costs{Transport: 300, Food: 700}}},
	}
	stats := ComputeTripStats(schedule, TripDays)
	if len(stats.Chart) != 2 {
		t.Fatalf("chart entries = %d, want 2", len(stats.Chart))
	}
	// Chart keeps the fixed category display order.
	if stats.Chart[0].Key != CategoryTransport || stats.Chart[1].Key != CategoryFood {
		t.Fatalf("chart order = %v", stats.Chart)
	}
	if stats.Chart[0].Percentage != 30 || stats.Chart[1].Percentage != 70 {
		t.Fatalf("percentages = %v / %v", stats.Chart[0].Percentage, stats.Chart[1].Percentage)
	}
}

func TestChecklistProgress(t *testing.T) {
	items := []ChecklistItem{
		{ID: "1", Completed: true},
		{ID: "2"},
		{ID: "3", Completed: true},
	}
	p := Progress(items)
	if p.Done != 2 || p.Total != 3 {
		t.Fatalf("progress = %+v", p)
	}
	if got := Progress(nil).Percent(); got != 0 {
		t.Fatalf("empty percent = %v, want 0", got)
	}
}
