package cli

import (
	"sort"
	"strings"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByPosition SortOrder = "position"
	SortByDate     SortOrder = "date"
	SortByName     SortOrder = "name"
)

// sortRows orders rows for display; stored positions are left unchanged
func sortRows(rows []EventRow, order SortOrder) {
	switch order {
	case SortByDate:
		sort.SliceStable(rows, func(i, j int) bool {
			if rows[i].DaysUntil != rows[j].DaysUntil {
				return rows[i].DaysUntil < rows[j].DaysUntil
			}
			return rows[i].Position < rows[j].Position
		})
	case SortByName:
		sort.SliceStable(rows, func(i, j int) bool {
			if !strings.EqualFold(rows[i].Name, rows[j].Name) {
				return strings.ToLower(rows[i].Name) < strings.ToLower(rows[j].Name)
			}
			// If names are equal, sort by date
			return rows[i].DaysUntil < rows[j].DaysUntil
		})
	}
}

func parseSortOrder(s string) (SortOrder, bool) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByPosition, SortByDate, SortByName:
		return order, true
	}
	return "", false
}
