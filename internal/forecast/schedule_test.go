package forecast

import (
	"testing"
	"time"

	"housebudget/internal/core"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestOccurrencesMonthly(t *testing.T) {
	months := []core.Month{
		{Year: 2025, Month: 1}, {Year: 2025, Month: 2}, {Year: 2024, Month: 2}, {Year: 2025, Month: 12},
	}
	anchors := []time.Time{{}, date(2020, 1, 1), date(2030, 6, 15)}
	for _, m := range months {
		for _, a := range anchors {
			if got := OccurrencesInMonth(core.Monthly, a, m); got != 1 {
				t.Fatalf("monthly in %v anchored %v: expected 1, got %d", m, a, got)
			}
		}
	}
}

func TestOccurrencesDaily(t *testing.T) {
	cases := []struct {
		m    core.Month
		want int
	}{
		{core.Month{Year: 2025, Month: 1}, 31},
		{core.Month{Year: 2025, Month: 2}, 28},
		{core.Month{Year: 2024, Month: 2}, 29},
		{core.Month{Year: 2025, Month: 4}, 30},
	}
	for _, tc := range cases {
		if got := OccurrencesInMonth(core.Daily, time.Time{}, tc.m); got != tc.want {
			t.Fatalf("daily in %v: expected %d, got %d", tc.m, tc.want, got)
		}
	}
}

func TestOccurrencesWeekly(t *testing.T) {
	cases := []struct {
		name   string
		anchor time.Time
		month  core.Month
		want   int
	}{
		// Mondays in March 2025: 3, 10, 17, 24, 31
		{"first monday of march", date(2025, 3, 3), core.Month{Year: 2025, Month: 3}, 5},
		// Same month, anchored in a prior month: alignment holds
		{"anchored in february", date(2025, 2, 3), core.Month{Year: 2025, Month: 3}, 5},
		{"anchored a year early", date(2024, 3, 4), core.Month{Year: 2025, Month: 3}, 5},
		// Fridays in February 2025: 7, 14, 21, 28
		{"fridays in february", date(2025, 2, 7), core.Month{Year: 2025, Month: 2}, 4},
		// Anchor after the month yields nothing
		{"anchor after month", date(2025, 4, 1), core.Month{Year: 2025, Month: 3}, 0},
		{"anchor mid-month", date(2025, 3, 20), core.Month{Year: 2025, Month: 3}, 2}, // 20, 27
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OccurrencesInMonth(core.Weekly, tc.anchor, tc.month); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestOccurrencesWeeklyMatchesEnumeration(t *testing.T) {
	// The strategy must agree with direct enumeration every 7 days from
	// the anchor, for a spread of anchors and months.
	anchors := []time.Time{
		date(2024, 12, 30), date(2025, 1, 2), date(2025, 2, 14), date(2025, 6, 1),
	}
	months := []core.Month{{Year: 2025, Month: 1}, {Year: 2025, Month: 2}, {Year: 2025, Month: 3}, {Year: 2025, Month: 6}, {Year: 2025, Month: 7}}
	for _, a := range anchors {
		for _, m := range months {
			want := 0
			for d := a; !d.After(m.End()); d = d.AddDate(0, 0, 7) {
				if m.Contains(d) {
					want++
				}
			}
			if got := OccurrencesInMonth(core.Weekly, a, m); got != want {
				t.Fatalf("anchor %v month %v: expected %d, got %d", a, m, want, got)
			}
		}
	}
}

func TestOccurrencesBiWeekly(t *testing.T) {
	cases := []struct {
		name   string
		anchor time.Time
		month  core.Month
		want   int
	}{
		// Paydays from Jan 3 2025 every 14 days: Jan 3, 17, 31, Feb 14, 28...
		{"three paydays in january", date(2025, 1, 3), core.Month{Year: 2025, Month: 1}, 3},
		{"two paydays in february", date(2025, 1, 3), core.Month{Year: 2025, Month: 2}, 2},
		// Interval alignment depends on the true anchor: shifting the
		// anchor one week changes which weeks pay out.
		{"shifted anchor", date(2025, 1, 10), core.Month{Year: 2025, Month: 2}, 2}, // Feb 7, 21
		{"anchor after month", date(2025, 5, 1), core.Month{Year: 2025, Month: 2}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := OccurrencesInMonth(core.BiWeekly, tc.anchor, tc.month); got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestOccurrencesSemiMonthly(t *testing.T) {
	for _, m := range []core.Month{{Year: 2025, Month: 1}, {Year: 2025, Month: 2}, {Year: 2024, Month: 2}} {
		if got := OccurrencesInMonth(core.SemiMonthly, time.Time{}, m); got != 2 {
			t.Fatalf("semi-monthly in %v: expected 2, got %d", m, got)
		}
	}
}

func TestOccurrencesInvalidMonth(t *testing.T) {
	bad := []core.Month{{Year: 2025, Month: 0}, {Year: 2025, Month: 13}, {Year: 0, Month: 5}, {}}
	freqs := []core.Frequency{core.Daily, core.Weekly, core.BiWeekly, core.SemiMonthly, core.Monthly}
	for _, m := range bad {
		for _, f := range freqs {
			if got := OccurrencesInMonth(f, date(2025, 1, 1), m); got != 0 {
				t.Fatalf("%s in invalid month %v: expected 0, got %d", f, m, got)
			}
		}
	}
}

func TestOccurrencesUnknownFrequency(t *testing.T) {
	if got := OccurrencesInMonth("quarterly", date(2025, 1, 1), core.Month{Year: 2025, Month: 1}); got != 0 {
		t.Fatalf("unknown frequency: expected 0, got %d", got)
	}
	if _, err := GetOccurrenceCounter("quarterly"); err == nil {
		t.Fatal("expected error for unknown frequency")
	}
}
