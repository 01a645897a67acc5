package booking

import (
	"strings"
	"testing"
	"time"
)

func TestUpcomingSlots_FiltersByWeekday(t *testing.T) {
	t.Parallel()

	// 2024-03-01 is a Friday.
	today := time.Date(2024, 3, 1, 15, 30, 0, 0, time.UTC)

	got := CollectSlots(UpcomingSlots("Mon, Wed", "09:00-10:00, 14:00-15:00", today))

	wantDates := []string{"2024-03-04", "2024-03-06", "2024-03-11", "2024-03-13"}
	if len(got) != len(wantDates) {
		t.Fatalf("expected %d days, got %d: %+v", len(wantDates), len(got), got)
	}

	for i, g := range got {
		if g.Date != wantDates[i] {
			t.Errorf("day %d: expected %s, got %s", i, wantDates[i], g.Date)
		}
		if len(g.Slots) != 2 {
			t.Fatalf("day %d: expected 2 slots, got %d", i, len(g.Slots))
		}
		if g.Slots[0].Time != "09:00-10:00" || g.Slots[1].Time != "14:00-15:00" {
			t.Errorf("day %d: times not kept verbatim: %+v", i, g.Slots)
		}
		for _, s := range g.Slots {
			if s.Date != g.Date {
				t.Errorf("slot date %s does not match group date %s", s.Date, g.Date)
			}
		}
	}
}

func TestUpcomingSlots_StaysInsideWindowForEveryWeekdaySet(t *testing.T) {
	t.Parallel()

	names := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

	for offset := 0; offset < 7; offset++ {
		today := time.Date(2024, 1, 7+offset, 0, 0, 0, 0, time.UTC)
		end := today.AddDate(0, 0, BookingWindowDays)

		for mask := 1; mask < 1<<7; mask++ {
			var picked []string
			allowed := map[string]bool{}
			for i, n := range names {
				if mask&(1<<i) != 0 {
					picked = append(picked, n)
					allowed[n] = true
				}
			}

			groups := CollectSlots(UpcomingSlots(strings.Join(picked, ","), "10:00", today))

			if len(groups) != 2*len(picked) {
				t.Fatalf("days=%v today=%s: expected %d groups, got %d",
					picked, today.Format(DateLayout), 2*len(picked), len(groups))
			}

			for _, g := range groups {
				d, err := time.Parse(DateLayout, g.Date)
				if err != nil {
					t.Fatalf("bad date %q: %v", g.Date, err)
				}
				if d.Before(today) || !d.Before(end) {
					t.Fatalf("date %s outside [%s, %s)", g.Date, today.Format(DateLayout), end.Format(DateLayout))
				}
				if !allowed[d.Weekday().String()[:3]] {
					t.Fatalf("date %s (%s) not in %v", g.Date, d.Weekday(), picked)
				}
			}
		}
	}
}

func TestUpcomingSlots_EmptyInputs(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		days  string
		times string
	}{
		{"no weekdays", "", "09:00"},
		{"blank weekdays", " , ,", "09:00"},
		{"unknown weekdays", "Funday, xx", "09:00"},
		{"no times", "Mon,Tue", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := CollectSlots(UpcomingSlots(tt.days, tt.times, today)); len(got) != 0 {
				t.Fatalf("expected no slots, got %+v", got)
			}
		})
	}
}

func TestUpcomingSlots_TolerantWeekdayNames(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	a := CollectSlots(UpcomingSlots("Mon,Wed", "09:00", today))
	b := CollectSlots(UpcomingSlots("  monday , WEDNESDAY ", "09:00", today))

	if len(a) != len(b) {
		t.Fatalf("expected same number of days, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Date != b[i].Date {
			t.Errorf("day %d: %s vs %s", i, a[i].Date, b[i].Date)
		}
	}
}

func TestUpcomingSlots_StopsWhenConsumerBreaks(t *testing.T) {
	t.Parallel()

	today := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	n := 0
	for range UpcomingSlots("Sun,Mon,Tue,Wed,Thu,Fri,Sat", "09:00", today) {
		n++
		if n == 3 {
			break
		}
	}
	if n != 3 {
		t.Fatalf("expected to stop after 3 days, got %d", n)
	}
}

func TestUpcomingSlots_CalendarArithmeticAcrossDST(t *testing.T) {
	t.Parallel()

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	today := time.Date(2024, 3, 8, 23, 0, 0, 0, loc)
	got := CollectSlots(UpcomingSlots("Sun,Mon,Tue,Wed,Thu,Fri,Sat", "09:00", today))

	if len(got) != BookingWindowDays {
		t.Fatalf("expected %d days, got %d", BookingWindowDays, len(got))
	}
	if got[0].Date != "2024-03-08" || got[len(got)-1].Date != "2024-03-21" {
		t.Fatalf("unexpected window %s..%s", got[0].Date, got[len(got)-1].Date)
	}
	seen := map[string]bool{}
	for _, g := range got {
		if seen[g.Date] {
			t.Fatalf("date %s yielded twice", g.Date)
		}
		seen[g.Date] = true
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := SplitList(" a, ,b ,, c ")
	if strings.Join(got, "|") != "a|b|c" {
		t.Fatalf("unexpected split: %q", got)
	}
	if SplitList("") != nil {
		t.Fatalf("expected nil for empty input")
	}
}
