package bot

import (
	"fmt"

	"github.com/pfrederiksen/countdown-bot/internal/event"
)

// Fixed replies
const (
	pongMessage          = "Pong!"
	askNameMessage       = "Name this event? (send q to quit)"
	emptyNameMessage     = "The event needs a name. Name this event? (send q to quit)"
	askDateMessage       = "When is the event? Enter MM/DD/YYYY or q to quit:"
	invalidDateMessage   = "Invalid date; please enter a date in MM/DD/YYYY format that is today or later."
	askPositionMessage   = "Which event should I delete? Enter its number or q to quit:"
	invalidNumberMessage = "Invalid input; please enter a whole number."
	outOfRangeMessage    = "Invalid number; operation aborted."
	abortedMessage       = "Aborted operation."
	nothingToCancel      = "There is nothing to cancel."
	timedOutMessage      = "Timed out waiting for a reply; operation abandoned."
	genericErrorMessage  = "Something went wrong; please try again later."
	privateHintMessage   = "Send /help to see what I can do."
)

var nameTooLongMessage = fmt.Sprintf("Event names can be at most %d characters. Name this event? (send q to quit)", event.MaxNameLength)

func getHelpMessage() string {
	return `Countdown Bot

I keep a shared list of upcoming events and count down the days to each one.

Commands:
/ping - Check that I'm alive
/events - Show the event commands
/list - List all events
/add - Add an event (I'll ask for the name and date)
/delete - Delete an event by its number
/countdown - Show how long until each event
/export - Download all events as a calendar file
/cancel - Stop the current prompt
/help - Show this help message

Dates use the MM/DD/YYYY format. Prompts expire if nobody answers in time.`
}

func getEventsMenu() string {
	return `Event commands:
/list - List all events
/add - Add an event
/delete - Delete an event by its number
/countdown - Time left until each event
/export - Download all events as an .ics file`
}

func unknownCommandMessage(command string) string {
	return fmt.Sprintf("Unknown command: /%s\n\nUse /help to see available commands.", command)
}
