package timezone

import (
	"time"

	domain "github.com/BruksfildServices01/mediplus/internal/domain/booking"
)

// DefaultTimezone is the clinic's home zone. Booking dates are calendar
// dates in this zone.
const DefaultTimezone = "Asia/Kolkata"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, err := time.LoadLocation(DefaultTimezone)
	if err != nil {
		// no tzdata on the host
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// Today returns the clinic's calendar date in tz. A non-empty override in
// YYYY-MM-DD form replaces the current date.
func Today(tz, override string) (time.Time, bool) {
	loc := Location(tz)
	if override == "" {
		return NowIn(tz), true
	}

	d, err := time.ParseInLocation(domain.DateLayout, override, loc)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
