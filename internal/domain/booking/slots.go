package booking

import (
	"iter"
	"strings"
	"time"
)

// BookingWindowDays is how far ahead, today included, slots are offered.
const BookingWindowDays = 14

const DateLayout = "2006-01-02"

type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type DaySlots struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
	Slots   []Slot `json:"slots"`
}

// UpcomingSlots yields one group per day in [today, today+BookingWindowDays)
// whose weekday appears in availableDays. Each group pairs the date with
// every entry of availableTimes, verbatim.
func UpcomingSlots(availableDays, availableTimes string, today time.Time) iter.Seq[DaySlots] {
	weekdays := ParseWeekdays(availableDays)
	times := SplitList(availableTimes)

	return func(yield func(DaySlots) bool) {
		if len(weekdays) == 0 || len(times) == 0 {
			return
		}

		start := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())

		for i := 0; i < BookingWindowDays; i++ {
			day := start.AddDate(0, 0, i)
			if _, ok := weekdays[day.Weekday()]; !ok {
				continue
			}

			date := day.Format(DateLayout)
			group := DaySlots{
				Date:    date,
				Weekday: day.Weekday().String()[:3],
				Slots:   make([]Slot, 0, len(times)),
			}
			for _, t := range times {
				group.Slots = append(group.Slots, Slot{Date: date, Time: t})
			}

			if !yield(group) {
				return
			}
		}
	}
}

func CollectSlots(seq iter.Seq[DaySlots]) []DaySlots {
	out := []DaySlots{}
	for g := range seq {
		out = append(out, g)
	}
	return out
}

// ParseWeekdays reads a comma-separated weekday list. Entries are matched
// case-insensitively against English day names; any prefix of at least
// three letters counts ("Mon", "tues", "Thursday"). Unknown entries are
// skipped.
func ParseWeekdays(raw string) map[time.Weekday]struct{} {
	out := make(map[time.Weekday]struct{})
	for _, part := range SplitList(raw) {
		token := strings.ToLower(part)
		if len(token) < 3 {
			continue
		}
		for d := time.Sunday; d <= time.Saturday; d++ {
			if strings.HasPrefix(strings.ToLower(d.String()), token) {
				out[d] = struct{}{}
				break
			}
		}
	}
	return out
}

// SplitList splits on commas, trims entries and drops empty ones.
func SplitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func IsValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
