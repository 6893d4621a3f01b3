package event

import (
	"fmt"
	"time"
)

// DateLayout is the only accepted date format: MM/DD/YYYY
const DateLayout = "01/02/2006"

const day = 24 * time.Hour

// ParseDate parses text strictly as MM/DD/YYYY.
// Month and day must be two digits and the year four; impossible dates
// such as 02/30/2025 and surrounding whitespace are rejected.
func ParseDate(text string) (time.Time, error) {
	if len(text) != len(DateLayout) {
		return time.Time{}, fmt.Errorf("invalid date %q: expected MM/DD/YYYY", text)
	}
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", text, err)
	}
	return t, nil
}

// IsValidFutureDate reports whether text is a well-formed MM/DD/YYYY date
// that is not before the current calendar date. Today is accepted.
func IsValidFutureDate(text string, now time.Time) bool {
	parsed, err := ParseDate(text)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !parsed.Before(today)
}

// DaysUntil returns the whole days from now until midnight of the event date,
// rounded toward negative infinity. An event later today already counts as -1
// once midnight has passed, and tomorrow's event is 0 days away until midnight.
//
// The difference is taken between wall-clock readings in now's location, so a
// daylight saving change in between does not stretch or shrink a day.
func DaysUntil(e Event, now time.Time) int {
	wall := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), time.UTC)
	target := time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), 0, 0, 0, 0, time.UTC)
	diff := target.Sub(wall)
	days := int(diff / day)
	if diff < 0 && diff%day != 0 {
		days--
	}
	return days
}

// IsPast reports whether the event date is before today
func (e Event) IsPast(now time.Time) bool {
	return !IsValidFutureDate(e.DateText(), now)
}
