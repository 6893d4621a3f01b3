// Package cli implements the command-line interface for countdown-bot.
//
// The root command has two branches: run starts the Telegram bot, and events manages
// the same JSON event file offline (list, add, remove, countdown, import from a web
// page and export as iCalendar). Configuration is loaded once per invocation from the
// --config file and COUNTDOWN_* environment variables; --data-file overrides the store
// location.
package cli
