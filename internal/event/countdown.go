package event

import (
	"fmt"
	"strings"
	"time"
)

const (
	daysPerMonth = 30
	daysPerYear  = 365

	// NoEventsMessage is the reply for an empty event list
	NoEventsMessage = "No events scheduled."
)

// FormatCountdown renders the time until an event as years, months and days.
//
// Months are fixed 30-day blocks and years fixed 365-day blocks. Past events
// are not special-cased: a negative day count lands in the days bucket and is
// rendered as-is ("-3 days").
func FormatCountdown(e Event, now time.Time) string {
	days := DaysUntil(e, now)

	if days < daysPerMonth {
		return plural(days, "day")
	}

	if days < daysPerYear {
		months := days / daysPerMonth
		remaining := days % daysPerMonth
		if remaining == 0 {
			return plural(months, "month")
		}
		return fmt.Sprintf("%s and %s", plural(months, "month"), plural(remaining, "day"))
	}

	years := days / daysPerYear
	rem := days % daysPerYear
	months := rem / daysPerMonth
	remDays := rem % daysPerMonth

	var b strings.Builder
	b.WriteString(plural(years, "year"))
	if months > 0 {
		fmt.Fprintf(&b, ", %s", plural(months, "month"))
	}
	if remDays > 0 {
		fmt.Fprintf(&b, " and %s", plural(remDays, "day"))
	}
	return b.String()
}

// FormatEventList renders the numbered event list shown by the list command
func FormatEventList(events []Event) string {
	if len(events) == 0 {
		return NoEventsMessage
	}

	lines := make([]string, 0, len(events)+1)
	lines = append(lines, "Upcoming Events:")
	for i, e := range events {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, e.Name, e.DateText()))
	}
	return strings.Join(lines, "\n")
}

// FormatCountdownList renders every event with its countdown
func FormatCountdownList(events []Event, now time.Time) string {
	if len(events) == 0 {
		return NoEventsMessage
	}

	lines := make([]string, 0, len(events)+1)
	lines = append(lines, "Countdown:")
	for i, e := range events {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, e.Name, FormatCountdown(e, now)))
	}
	return strings.Join(lines, "\n")
}

// plural formats a count with its unit, adding "s" unless the count is exactly 1
func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
