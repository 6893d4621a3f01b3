package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxNameLength is the longest event name accepted, in characters
const MaxNameLength = 100

var (
	ErrEmptyName   = errors.New("event name must not be empty")
	ErrNameTooLong = fmt.Errorf("event name must be at most %d characters", MaxNameLength)
)

// ValidateName checks a name as New would store it
func ValidateName(name string) error {
	name = norm.NFC.String(strings.TrimSpace(name))
	switch {
	case name == "":
		return ErrEmptyName
	case utf8.RuneCountInString(name) > MaxNameLength:
		return ErrNameTooLong
	}
	return nil
}

// Event represents a named, dated entry tracked by the bot
type Event struct {
	Name string
	Date time.Time
}

// wireEvent is the on-disk shape of an Event
type wireEvent struct {
	Name string `json:"name"`
	Date string `json:"date"`
}

// New creates an Event, truncating the date to midnight UTC.
// The name is trimmed and put in Unicode NFC form.
func New(name string, date time.Time) Event {
	return Event{
		Name: norm.NFC.String(strings.TrimSpace(name)),
		Date: time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
	}
}

// DateText returns the event date formatted as MM/DD/YYYY
func (e Event) DateText() string {
	return e.Date.Format(DateLayout)
}

// MarshalJSON encodes the event as {"name": ..., "date": "MM/DD/YYYY"}
func (e Event) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireEvent{Name: e.Name, Date: e.DateText()})
}

// UnmarshalJSON decodes an event, rejecting dates that are not MM/DD/YYYY
func (e *Event) UnmarshalJSON(data []byte) error {
	var w wireEvent
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	d, err := ParseDate(w.Date)
	if err != nil {
		return fmt.Errorf("event %q: %w", w.Name, err)
	}
	e.Name = w.Name
	e.Date = d
	return nil
}

// Equal reports whether two events have the same name and calendar date.
// Names that differ only in Unicode composition are the same name.
func (e Event) Equal(other Event) bool {
	return norm.NFC.String(e.Name) == norm.NFC.String(other.Name) && e.DateText() == other.DateText()
}
