package core

import (
	"errors"
	"testing"
)

func TestTimeLabel(t *testing.T) {
	cases := []struct {
		start, end string
		want       string
	}{
		{"09:00", "11:30", "09:00 - 11:30"},
		{"09:00", "", "09:00 ~"},
		{"", "11:30", "~ 11:30"},
		{"", "", ""},
	}
	for _, tc := range cases {
		it := ScheduleItem{Start: tc.start, End: tc.end}
		if got := it.TimeLabel(); got != tc.want {
			t.Fatalf("TimeLabel(%q, %q) = %q, want %q", tc.start, tc.end, got, tc.want)
		}
	}
}

func TestValidClock(t *testing.T) {
	valid := []string{"00:00", "09:30", "23:59"}
	for _, s := range valid {
		if !ValidClock(s) {
			t.Fatalf("ValidClock(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "9:30", "24:00", "12:60", "12-30", "12:3a"}
	for _, s := range invalid {
		if ValidClock(s) {
			t.Fatalf("ValidClock(%q) = true, want false", s)
		}
	}
}

func TestRecordValidationGate(t *testing.T) {
	base := ScheduleItem{
		Day:   1,
		Start: "09:00",
		Type:  TypeSightseeing,
		Title: "아사쿠사 산책",
	}

	if _, err := base.Record(); err != nil {
		t.Fatalf("valid item: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*ScheduleItem)
		want   error
	}{
		{"empty title", func(it *ScheduleItem) { it.Title = "   " }, ErrEmptyTitle},
		{"missing start", func(it *ScheduleItem) { it.Start = "" }, ErrMissingStartTime},
		{"bad start", func(it *ScheduleItem) { it.Start = "9am" }, ErrInvalidTime},
		{"bad end", func(it *ScheduleItem) { it.End = "25:00" }, ErrInvalidTime},
		{"bad day", func(it *ScheduleItem) { it.Day = 0 }, ErrInvalidDay},
		{"bad type", func(it *ScheduleItem) { it.Type = "party" }, ErrInvalidType},
	}
	for _, tc := range cases {
		it := base
		tc.mutate(&it)
		if _, err := it.Record(); !errors.Is(err, tc.want) {
			t.Fatalf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}

func TestRecordCollapsesCosts(t *testing.T) {
	it := ScheduleItem{
		Day:   2,
		Start: "12:00",
		End:   "13:00",
		Type:  TypeFood,
		Title: "이치란 라멘",
		Costs: Costs{Food: 2000, Transport: 300},
	}
	rec, err := it.Record()
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if rec.Cost != 2300 {
		t.Fatalf("cost = %d, want 2300", rec.Cost)
	}
	if rec.StartTime != "12:00:00" || rec.EndTime != "13:00:00" {
		t.Fatalf("times = %q / %q", rec.StartTime, rec.EndTime)
	}
}

func TestItemFromRecordDefaults(t *testing.T) {
	it := ItemFromRecord(ScheduleRecord{
		ID:    "abc",
		Day:   3,
		Type:  TypeHotel,
		Title: "호텔 체크인",
		Cost:  5400,
	})
	if it.Start != "" || it.End != "" {
		t.Fatalf("times = %q / %q, want empty", it.Start, it.End)
	}
	if it.Location != "" || it.Note != "" {
		t.Fatalf("optionals not defaulted: %+v", it)
	}
	if it.Costs.Etc != 5400 || it.Costs.Total() != 5400 {
		t.Fatalf("aggregate cost not funneled into etc: %+v", it.Costs)
	}
}

// The persisted schema keeps only the aggregate cost; converting a record to
// an item and back must preserve that total even though the breakdown is lost.
func TestLossyRoundTripPreservesTotal(t *testing.T) {
	rec := ScheduleRecord{
		ID:        "r1",
		Day:       1,
		StartTime: "10:15:00",
		Type:      TypeShopping,
		Title:     "돈키호테",
		Cost:      8800,
	}
	back, err := ItemFromRecord(rec).Record()
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if back.Cost != rec.Cost {
		t.Fatalf("cost = %d, want %d", back.Cost, rec.Cost)
	}
	if back.StartTime != rec.StartTime {
		t.Fatalf("start = %q, want %q", back.StartTime, rec.StartTime)
	}
}
