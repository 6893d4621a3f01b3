package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/countdown-bot/internal/clock"
	"github.com/pfrederiksen/countdown-bot/internal/config"
	"github.com/pfrederiksen/countdown-bot/internal/event"
	"github.com/pfrederiksen/countdown-bot/internal/storage"
)

type cliEnv struct {
	dir      string
	dataFile string
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	old := cliClock
	cliClock = &clock.MockClock{FixedNow: time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)}
	t.Cleanup(func() { cliClock = old })

	dir := t.TempDir()
	return &cliEnv{dir: dir, dataFile: filepath.Join(dir, "events.json")}
}

func (e *cliEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args,
		"--config", filepath.Join(e.dir, "missing.yaml"),
		"--data-file", e.dataFile,
	))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *cliEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, "args: %v", args)
	return out
}

func TestEventsAddAndList(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "events", "add", "Launch", "12/02/2026")
	assert.Equal(t, "Added Launch on 12/02/2026 (1 month and 15 days away).\n", out)

	env.mustRun(t, "events", "add", " Vacation ", " 11/03/2026 ")

	out = env.mustRun(t, "events", "list")
	assert.Equal(t, "1. Launch - 12/02/2026\n2. Vacation - 11/03/2026\n\nTotal: 2 event(s)\n", out)

	out = env.mustRun(t, "events", "list", "--sort", "date", "--verbose")
	assert.Equal(t,
		"2. Vacation - 11/03/2026\n     In: 16 days\n1. Launch - 12/02/2026\n     In: 1 month and 15 days\n\nTotal: 2 event(s)\n",
		out)
}

func TestEventsList_Empty(t *testing.T) {
	env := newCLIEnv(t)

	out := env.mustRun(t, "events", "list")
	assert.Equal(t, "No events scheduled.\n", out)
}

func TestEventsList_JSON(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "events", "add", "Launch", "12/02/2026")

	out := env.mustRun(t, "events", "list", "--format", "json")

	var result OutputResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 1, result.EventCount)
	require.Len(t, result.Events, 1)
	assert.Equal(t, EventRow{
		Position:  1,
		Name:      "Launch",
		Date:      "12/02/2026",
		DaysUntil: 45,
		Countdown: "1 month and 15 days",
	}, result.Events[0])
}

func TestEventsList_BadFlags(t *testing.T) {
	env := newCLIEnv(t)

	_, err := env.run(t, "events", "list", "--format", "xml")
	assert.ErrorContains(t, err, "invalid format")

	_, err = env.run(t, "events", "list", "--sort", "size")
	assert.ErrorContains(t, err, "invalid sort order")
}

func TestEventsAdd_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"wrong format", []string{"Launch", "2026-12-02"}, "invalid date"},
		{"impossible date", []string{"Launch", "02/30/2027"}, "invalid date"},
		{"past date", []string{"Launch", "10/17/2026"}, "invalid date"},
		{"blank name", []string{"  ", "12/02/2026"}, "name must not be empty"},
		{"name too long", []string{strings.Repeat("x", event.MaxNameLength+1), "12/02/2026"}, "at most 100 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newCLIEnv(t)
			_, err := env.run(t, append([]string{"events", "add"}, tt.args...)...)
			assert.ErrorContains(t, err, tt.want)

			out := env.mustRun(t, "events", "list")
			assert.Equal(t, "No events scheduled.\n", out)
		})
	}
}

func TestEventsRemove(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "events", "add", "Launch", "12/02/2026")
	env.mustRun(t, "events", "add", "Vacation", "11/03/2026")

	_, err := env.run(t, "events", "remove", "3")
	require.Error(t, err)
	assert.True(t, errors.Is(err, storage.ErrOutOfRange))

	_, err = env.run(t, "events", "remove", "one")
	assert.ErrorContains(t, err, "whole number")

	out := env.mustRun(t, "events", "remove", "1")
	assert.Equal(t, "Deleted Launch.\n", out)

	out = env.mustRun(t, "events", "list")
	assert.Equal(t, "1. Vacation - 11/03/2026\n\nTotal: 1 event(s)\n", out)
}

func TestEventsCountdown(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "events", "add", "Launch", "12/02/2026")
	env.mustRun(t, "events", "add", "Today", "10/18/2026")

	out := env.mustRun(t, "events", "countdown")
	assert.Equal(t, "Countdown:\n1. Launch - 1 month and 15 days\n2. Today - 0 days\n", out)
}

func TestEventsImport(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><ul>
			<li>Launch - 12/02/2026</li>
			<li>Old Trip - 01/01/2020</li>
			<li>Concert - 12/05/2026</li>
			<li>Not an event</li>
		</ul></body></html>`)
	}))
	defer server.Close()

	env := newCLIEnv(t)
	env.mustRun(t, "events", "add", "Launch", "12/02/2026")

	out := env.mustRun(t, "events", "import", "--url", server.URL)
	assert.Equal(t, fmt.Sprintf("Imported 1 event(s) from %s (3 found, 1 past, 1 already stored).\n", server.URL), out)

	out = env.mustRun(t, "events", "list")
	assert.Equal(t, "1. Launch - 12/02/2026\n2. Concert - 12/05/2026\n\nTotal: 2 event(s)\n", out)
}

func TestEventsImport_RequiresURL(t *testing.T) {
	env := newCLIEnv(t)
	_, err := env.run(t, "events", "import")
	assert.Error(t, err)
}

func TestEventsExport(t *testing.T) {
	env := newCLIEnv(t)
	env.mustRun(t, "events", "add", "Launch", "12/02/2026")

	out := env.mustRun(t, "events", "export")
	assert.Contains(t, out, "BEGIN:VCALENDAR\r\n")
	assert.Contains(t, out, "SUMMARY:Launch\r\n")
	assert.Contains(t, out, "DTSTART;VALUE=DATE:20261202\r\n")

	target := filepath.Join(env.dir, "events.ics")
	out = env.mustRun(t, "events", "export", "--out", target)
	assert.Equal(t, fmt.Sprintf("Wrote 1 event(s) to %s\n", target), out)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), "END:VCALENDAR")
}

func TestRun_RequiresToken(t *testing.T) {
	t.Setenv(config.TokenEnvFallback, "")
	t.Setenv(config.EnvPrefix+"TELEGRAM_TOKEN", "")

	env := newCLIEnv(t)
	_, err := env.run(t, "run")

	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrMissingToken)
}
