package entries

import (
	"strings"

	"flatrate/internal/domain/calendar"
)

// Filter applies the range mode, free-text search, and optional picked day
// from state to list. Filters compose with AND. Entries whose day key does
// not parse are excluded from every range except "all".
func Filter(list []WorkEntry, state ViewState) []WorkEntry {
	out := filterByMode(list, state)
	if q := strings.TrimSpace(state.Search); q != "" {
		out = filterBySearch(out, q)
	}
	if state.Mode == RangeWeek && state.PickedDay != "" {
		out = filterByDay(out, state.PickedDay)
	}
	return out
}

// TogglePickedDay returns the new picked-day value after selecting dayKey:
// selecting the already-picked day clears the pick.
func TogglePickedDay(current, dayKey string) string {
	if current == dayKey {
		return ""
	}
	return dayKey
}

func filterByMode(list []WorkEntry, state ViewState) []WorkEntry {
	switch state.Mode {
	case RangeDay:
		return filterByDay(list, calendar.DayKey(state.Now))
	case RangeWeek:
		weekStart := calendar.StartOfWeek(state.Now)
		out := make([]WorkEntry, 0, len(list))
		for _, e := range list {
			if calendar.InWeek(e.DayKey, weekStart) {
				out = append(out, e)
			}
		}
		return out
	case RangeMonth:
		monthStart := calendar.StartOfMonth(state.Now)
		out := make([]WorkEntry, 0, len(list))
		for _, e := range list {
			if calendar.InMonth(e.DayKey, monthStart) {
				out = append(out, e)
			}
		}
		return out
	default:
		return list
	}
}

// filterBySearch keeps entries where any of ref value, VIN8, work type, or
// notes contains the query, case-insensitively.
func filterBySearch(list []WorkEntry, query string) []WorkEntry {
	q := strings.ToLower(query)
	out := make([]WorkEntry, 0, len(list))
	for _, e := range list {
		haystack := []string{e.RefValue, e.VIN8, e.WorkType, e.Notes}
		for _, field := range haystack {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

func filterByDay(list []WorkEntry, dayKey string) []WorkEntry {
	out := make([]WorkEntry, 0, len(list))
	for _, e := range list {
		if e.DayKey == dayKey {
			out = append(out, e)
		}
	}
	return out
}
