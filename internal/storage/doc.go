// Package storage provides JSON-file persistence for the event list.
//
// The whole list is stored as one indented JSON array of {"name", "date"} records and
// rewritten in full on every mutation. Writes go through a temp file and a rename so a
// crash never leaves a truncated file behind. A Store serializes load-modify-save
// within the process; separate processes sharing a file still race, last write wins.
package storage
