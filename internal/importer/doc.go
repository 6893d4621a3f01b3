// Package importer pulls events out of an HTML page.
//
// Any text line of the form "<name> - MM/DD/YYYY" is treated as an event, which
// covers typical hand-written event pages, list items and simple tables.
package importer
