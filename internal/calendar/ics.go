// Package calendar renders the event list as an iCalendar (.ics) file.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

// uidNamespace scopes the deterministic per-event UIDs
var uidNamespace = uuid.MustParse("6f1c0b7e-3d1a-4e5b-9a57-0c2f4d8e9b13")

// GenerateICS generates an iCalendar file with one all-day VEVENT per event
func GenerateICS(events []event.Event, now time.Time) string {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//Countdown Bot//countdown-bot//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")

	stamp := formatICSTime(now)
	for i, evt := range events {
		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@countdown-bot\r\n", EventUID(i+1, evt)))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))

		// All-day event: DTEND is exclusive, so it is the following day
		ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(evt.Date)))
		ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(evt.Date.AddDate(0, 0, 1))))

		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Name)))
		ics.WriteString(fmt.Sprintf("DESCRIPTION:%s\r\n", escapeICS(fmt.Sprintf("%s on %s", evt.Name, evt.DateText()))))
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("SEQUENCE:0\r\n")
		ics.WriteString("TRANSP:TRANSPARENT\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// EventUID derives a stable UID from an event's position, name and date.
// Re-exporting an unchanged list yields the same UIDs, so calendar apps
// update entries instead of duplicating them.
func EventUID(position int, evt event.Event) string {
	return uuid.NewSHA1(uidNamespace, []byte(fmt.Sprintf("%d|%s|%s", position, evt.Name, evt.DateText()))).String()
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar date part only
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
