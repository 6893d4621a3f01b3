package event

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatCountdown(t *testing.T) {
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		days int
		want string
	}{
		{name: "today", days: 0, want: "0 days"},
		{name: "one day", days: 1, want: "1 day"},
		{name: "under a month", days: 29, want: "29 days"},
		{name: "exactly 30 days", days: 30, want: "1 month"},
		{name: "one month and one day", days: 31, want: "1 month and 1 day"},
		{name: "45 days", days: 45, want: "1 month and 15 days"},
		{name: "two whole months", days: 60, want: "2 months"},
		{name: "364 days", days: 364, want: "12 months and 4 days"},
		{name: "exactly 365 days", days: 365, want: "1 year"},
		{name: "400 days", days: 400, want: "1 year, 1 month and 5 days"},
		{name: "year and days only", days: 370, want: "1 year and 5 days"},
		{name: "year and months only", days: 425, want: "1 year, 2 months"},
		{name: "two years", days: 731, want: "2 years and 1 day"},
		{name: "yesterday", days: -1, want: "-1 days"},
		{name: "long past", days: -400, want: "-400 days"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := New("Trip", now.AddDate(0, 0, tt.days))
			assert.Equal(t, tt.want, FormatCountdown(evt, now))
		})
	}
}

func TestFormatCountdown_PartialDay(t *testing.T) {
	// Mid-morning: the partial day is floored away.
	now := time.Date(2026, time.October, 18, 10, 0, 0, 0, time.UTC)
	evt := New("Launch", time.Date(2026, time.December, 2, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "1 month and 14 days", FormatCountdown(evt, now))
}

func TestFormatEventList(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, "No events scheduled.", FormatEventList(nil))
		assert.Equal(t, "No events scheduled.", FormatEventList([]Event{}))
	})

	t.Run("numbered from one in insertion order", func(t *testing.T) {
		events := []Event{
			New("Vacation", time.Date(2026, time.December, 19, 0, 0, 0, 0, time.UTC)),
			New("Dentist", time.Date(2026, time.November, 3, 0, 0, 0, 0, time.UTC)),
			New("Vacation", time.Date(2026, time.December, 19, 0, 0, 0, 0, time.UTC)),
		}

		want := "Upcoming Events:\n" +
			"1. Vacation - 12/19/2026\n" +
			"2. Dentist - 11/03/2026\n" +
			"3. Vacation - 12/19/2026"
		assert.Equal(t, want, FormatEventList(events))
	})
}

func TestFormatCountdownList(t *testing.T) {
	now := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, NoEventsMessage, FormatCountdownList(nil, now))

	events := []Event{
		New("Party", now.AddDate(0, 0, 1)),
		New("Trip", now.AddDate(0, 0, 45)),
	}
	want := "Countdown:\n1. Party - 1 day\n2. Trip - 1 month and 15 days"
	assert.Equal(t, want, FormatCountdownList(events, now))
}
