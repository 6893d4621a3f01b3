package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// EventRow is one stored event as printed by the CLI.
// Position is the event's place in the file, which remove expects.
type EventRow struct {
	Position  int    `json:"position"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	DaysUntil int    `json:"days_until"`
	Countdown string `json:"countdown"`
}

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt  time.Time  `json:"checked_at"`
	EventCount int        `json:"event_count"`
	Events     []EventRow `json:"events"`
}

// NewOutputResult builds rows for events in stored order
func NewOutputResult(events []event.Event, now time.Time) *OutputResult {
	rows := make([]EventRow, 0, len(events))
	for i, e := range events {
		rows = append(rows, EventRow{
			Position:  i + 1,
			Name:      e.Name,
			Date:      e.DateText(),
			DaysUntil: event.DaysUntil(e, now),
			Countdown: event.FormatCountdown(e, now),
		})
	}
	return &OutputResult{
		CheckedAt:  now.UTC(),
		EventCount: len(rows),
		Events:     rows,
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs results as human-readable text
func writeText(w io.Writer, result *OutputResult, verbose bool) error {
	if result.EventCount == 0 {
		fmt.Fprintln(w, event.NoEventsMessage)
		return nil
	}

	for _, row := range result.Events {
		fmt.Fprintf(w, "%d. %s - %s\n", row.Position, row.Name, row.Date)
		if verbose {
			fmt.Fprintf(w, "     In: %s\n", row.Countdown)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d event(s)\n", result.EventCount)

	return nil
}
