package core

import "testing"

func TestCostsTotal(t *testing.T) {
	if got := (Costs{}).Total(); got != 0 {
		t.Fatalf("zero costs total = %d, want 0", got)
	}
	c := Costs{Transport: 100, Food: 50, Entrance: 30, ShoppingSujin: 20, ShoppingSeona: 10, Etc: 5}
	if got := c.Total(); got != 215 {
		t.Fatalf("total = %d, want 215", got)
	}
}

func TestSanitizeCosts(t *testing.T) {
	got := SanitizeCosts(map[string]string{
		"transport": "12",
		"food":      "-5",
		"entrance":  "abc",
		"etc":       " 7 ",
	})
	want := Costs{Transport: 12, Etc: 7}
	if got != want {
		t.Fatalf("sanitize = %+v, want %+v", got, want)
	}
}

func TestSanitizeCostsEmpty(t *testing.T) {
	if got := SanitizeCosts(nil); got != (Costs{}) {
		t.Fatalf("sanitize(nil) = %+v, want zero record", got)
	}
}

func TestFormatJPY(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-1500, "-1,500"},
	}
	for _, tc := range cases {
		if got := FormatJPY(tc.in); got != tc.want {
			t.Fatalf("FormatJPY(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestToKRW(t *testing.T) {
	// 100 JPY * 9.45 = 945 KRW exactly.
	if got := ToKRW(100); got != 945 {
		t.Fatalf("ToKRW(100) = %d, want 945", got)
	}
	if got := ToKRW(0); got != 0 {
		t.Fatalf("ToKRW(0) = %d, want 0", got)
	}
	// 2 JPY * 9.45 = 18.9 -> 19 regardless of rounding mode.
	if got := ToKRW(2); got != 19 {
		t.Fatalf("ToKRW(2) = %d, want 19", got)
	}
	// 10 JPY * 9.45 = 94.5 -> half-even rounds to 94.
	if got := ToKRW(10); got != 94 {
		t.Fatalf("ToKRW(10) = %d, want 94", got)
	}
}

func TestCostLabel(t *testing.T) {
	if got := CostLabel("transport"); got != "교통" {
		t.Fatalf("CostLabel(transport) = %q", got)
	}
	if got := CostLabel("unknown"); got != "unknown" {
		t.Fatalf("CostLabel(unknown) = %q, want pass-through", got)
	}
}
