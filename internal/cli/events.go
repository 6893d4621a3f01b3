package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/countdown-bot/internal/calendar"
	"github.com/pfrederiksen/countdown-bot/internal/clock"
	"github.com/pfrederiksen/countdown-bot/internal/event"
	"github.com/pfrederiksen/countdown-bot/internal/importer"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
)

// cliClock supplies "now" for date checks and countdowns
var cliClock clock.Clock = clock.SystemClock{}

var (
	flagFormat    string
	flagSort      string
	flagVerbose   bool
	flagImportURL string
	flagExportOut string
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage the stored event list",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all events",
		Args:  cobra.NoArgs,
		RunE:  runList,
	}
	list.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	list.Flags().StringVar(&flagSort, "sort", "position", "Sort order: position, date, or name")
	list.Flags().BoolVar(&flagVerbose, "verbose", false, "Show the countdown for each event")

	add := &cobra.Command{
		Use:   "add NAME MM/DD/YYYY",
		Short: "Add an event dated today or later",
		Args:  cobra.ExactArgs(2),
		RunE:  runAdd,
	}

	remove := &cobra.Command{
		Use:     "remove N",
		Aliases: []string{"delete"},
		Short:   "Remove the event at position N (as shown by list)",
		Args:    cobra.ExactArgs(1),
		RunE:    runRemove,
	}

	countdown := &cobra.Command{
		Use:   "countdown",
		Short: "Show how long until each event",
		Args:  cobra.NoArgs,
		RunE:  runCountdown,
	}

	imp := &cobra.Command{
		Use:   "import",
		Short: "Add the upcoming \"Name - MM/DD/YYYY\" entries found on a web page",
		Args:  cobra.NoArgs,
		RunE:  runImport,
	}
	imp.Flags().StringVar(&flagImportURL, "url", "", "Page to import from (required)")
	imp.MarkFlagRequired("url")

	export := &cobra.Command{
		Use:   "export",
		Short: "Write all events as an iCalendar file",
		Args:  cobra.NoArgs,
		RunE:  runExport,
	}
	export.Flags().StringVar(&flagExportOut, "out", "", "Output file (default stdout)")

	cmd.AddCommand(list, add, remove, countdown, imp, export)
	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	order, ok := parseSortOrder(flagSort)
	if !ok {
		return fmt.Errorf("invalid sort order: %s (must be 'position', 'date' or 'name')", flagSort)
	}

	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	events, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	result := NewOutputResult(events, cliClock.Now())
	sortRows(result.Events, order)

	if err := WriteOutput(cmd.OutOrStdout(), result, format, flagVerbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	if err := event.ValidateName(args[0]); err != nil {
		return err
	}

	now := cliClock.Now()
	dateText := strings.TrimSpace(args[1])
	if !event.IsValidFutureDate(dateText, now) {
		return fmt.Errorf("invalid date %q: use MM/DD/YYYY, today or later", dateText)
	}
	date, err := event.ParseDate(dateText)
	if err != nil {
		return err
	}

	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	evt := event.New(args[0], date)
	if err := store.Add(evt); err != nil {
		return fmt.Errorf("saving event: %w", err)
	}

	logger.IncrCounter("events.added")
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s on %s (%s away).\n", evt.Name, evt.DateText(), event.FormatCountdown(evt, now))
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	position, err := strconv.Atoi(strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("invalid position %q: must be a whole number", args[0])
	}

	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	name, err := store.RemoveAt(position)
	if err != nil {
		return fmt.Errorf("removing event: %w", err)
	}

	logger.IncrCounter("events.removed")
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s.\n", name)
	return nil
}

func runCountdown(cmd *cobra.Command, args []string) error {
	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	events, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), event.FormatCountdownList(events, cliClock.Now()))
	return nil
}

// runImport appends the page's upcoming events that are not already stored
func runImport(cmd *cobra.Command, args []string) error {
	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	found, err := importer.New().Fetch(cmd.Context(), flagImportURL)
	if err != nil {
		return fmt.Errorf("importing from %s: %w", flagImportURL, err)
	}
	upcoming := importer.Upcoming(found, cliClock.Now())

	added := 0
	err = store.Update(func(events []event.Event) ([]event.Event, error) {
		for _, evt := range upcoming {
			if containsEvent(events, evt) {
				continue
			}
			events = append(events, evt)
			added++
		}
		return events, nil
	})
	if err != nil {
		return fmt.Errorf("saving events: %w", err)
	}

	logger.Info("Import finished", logger.Fields{
		"url":      flagImportURL,
		"found":    len(found),
		"upcoming": len(upcoming),
		"added":    added,
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d event(s) from %s (%d found, %d past, %d already stored).\n",
		added, flagImportURL, len(found), len(found)-len(upcoming), len(upcoming)-added)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	app, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(app)
	if err != nil {
		return err
	}

	events, err := store.Load()
	if err != nil {
		return fmt.Errorf("loading events: %w", err)
	}

	ics := calendar.GenerateICS(events, cliClock.Now())
	if flagExportOut == "" || flagExportOut == "-" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), ics)
		return err
	}

	if err := os.WriteFile(flagExportOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", flagExportOut, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d event(s) to %s\n", len(events), flagExportOut)
	return nil
}

func containsEvent(events []event.Event, evt event.Event) bool {
	for _, e := range events {
		if e.Equal(evt) {
			return true
		}
	}
	return false
}
