// Package event provides the event model and the date helpers built around it.
//
// An Event is a name plus a calendar date. Dates travel as MM/DD/YYYY text on the
// wire and in the events file. The package validates user-entered dates, computes the
// whole-day distance to an event, and renders the human-readable countdown
// ("1 month and 15 days") and list views the bot replies with.
package event
