package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

const (
	UserAgent = "countdown-bot/1.0 (github.com/pfrederiksen/countdown-bot)"
	Timeout   = 30 * time.Second
)

// eventLinePattern matches "Name - MM/DD/YYYY"
var eventLinePattern = regexp.MustCompile(`^(.+?)\s+[-–]\s+(\d{2}/\d{2}/\d{4})$`)

// Importer fetches and parses event pages
type Importer struct {
	client *http.Client
}

// New creates a new Importer instance
func New() *Importer {
	return &Importer{
		client: &http.Client{
			Timeout: Timeout,
		},
	}
}

// Fetch downloads the page at url and returns the events found on it
func (im *Importer) Fetch(ctx context.Context, url string) ([]event.Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := im.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return Parse(resp.Body)
}

// Parse extracts events from HTML in document order.
// Repeated (name, date) pairs are reported once; lines whose date is not a real
// calendar date, or whose name is longer than event.MaxNameLength, are skipped.
func Parse(r io.Reader) ([]event.Event, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	events := make([]event.Event, 0)
	seen := make(map[string]bool)

	// Only leaf-ish elements: a container's Text() repeats all of its children
	doc.Find("li, p, td, dd, h1, h2, h3, h4, h5, h6, span, div").Each(func(i int, sel *goquery.Selection) {
		if sel.Children().Filter("li, p, td, dd, div, span, ul, ol, table").Length() > 0 {
			return
		}

		found := parseLines(strings.Split(sel.Text(), "\n"))
		if len(found) == 0 {
			// An entry wrapped across lines inside one element
			found = parseLines([]string{sel.Text()})
		}

		for _, evt := range found {
			key := evt.Name + "|" + evt.DateText()
			if seen[key] {
				continue
			}
			seen[key] = true
			events = append(events, evt)
		}
	})

	return events, nil
}

// parseLines returns the events found on lines of the form "Name - MM/DD/YYYY"
func parseLines(lines []string) []event.Event {
	var found []event.Event
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}

		matches := eventLinePattern.FindStringSubmatch(line)
		if matches == nil {
			continue
		}

		if event.ValidateName(matches[1]) != nil {
			continue
		}
		date, err := event.ParseDate(matches[2])
		if err != nil {
			continue
		}
		found = append(found, event.New(matches[1], date))
	}
	return found
}

// Upcoming keeps the events dated today or later
func Upcoming(events []event.Event, now time.Time) []event.Event {
	upcoming := make([]event.Event, 0, len(events))
	for _, evt := range events {
		if !evt.IsPast(now) {
			upcoming = append(upcoming, evt)
		}
	}
	return upcoming
}
