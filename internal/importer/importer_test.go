package importer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

func names(events []event.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.Name+" - "+e.DateText())
	}
	return out
}

func TestParse(t *testing.T) {
	data, err := os.ReadFile("testdata/events.html")
	require.NoError(t, err)

	events, err := Parse(strings.NewReader(string(data)))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Summer Vacation - 06/19/2027",
		"Grandma's Birthday - 11/02/2026",
		"Old Trip - 01/01/2020",
		"Concert - 12/05/2026",
		"Opening night - 03/14/2027",
	}, names(events))
}

func TestParse_NoEvents(t *testing.T) {
	events, err := Parse(strings.NewReader("<html><body><p>Nothing here</p></body></html>"))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParse_SkipsOverlongNames(t *testing.T) {
	long := strings.Repeat("x", event.MaxNameLength+1)
	page := "<ul><li>" + long + " - 12/02/2026</li><li>Launch - 12/05/2026</li></ul>"

	events, err := Parse(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, []string{"Launch"}, names(events))
}

func TestUpcoming(t *testing.T) {
	now := time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)
	events := []event.Event{
		event.New("Past", time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)),
		event.New("Today", now),
		event.New("Later", time.Date(2027, time.June, 19, 0, 0, 0, 0, time.UTC)),
	}

	assert.Equal(t, []string{"Today - 10/18/2026", "Later - 06/19/2027"}, names(Upcoming(events, now)))
}

func TestFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<ul><li>Launch - 03/01/2027</li></ul>")) // nolint:errcheck
	}))
	defer server.Close()

	events, err := New().Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"Launch - 03/01/2027"}, names(events))
}

func TestFetch_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	_, err := New().Fetch(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
