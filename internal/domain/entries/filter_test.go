package entries

import (
	"testing"
	"time"
)

func testEntries() []WorkEntry {
	return []WorkEntry{
		{ID: "1", DayKey: "2025-01-06", RefValue: "45821", WorkType: "Brakes"},
		{ID: "2", DayKey: "2025-01-08", RefValue: "45822", WorkType: "Alignment"},
		{ID: "3", DayKey: "2025-01-08", RefValue: "T12345", VIN8: "ABCD1234", WorkType: "PDI", Notes: "new unit"},
		{ID: "4", DayKey: "2024-12-31", RefValue: "45900", WorkType: "Oil change"},
		{ID: "5", DayKey: "bad-key", RefValue: "45777", WorkType: "Recall"},
	}
}

func ids(list []WorkEntry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func sameIDs(got []WorkEntry, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

var wednesday = time.Date(2025, time.January, 8, 9, 0, 0, 0, time.Local)

func TestFilterAll(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeAll, Now: wednesday})
	if len(got) != 5 {
		t.Fatalf("expected all 5 entries, got %d", len(got))
	}
}

func TestFilterDay(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeDay, Now: wednesday})
	if !sameIDs(got, "2", "3") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestFilterWeekExcludesMalformedKeys(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeWeek, Now: wednesday})
	if !sameIDs(got, "1", "2", "3") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestFilterMonth(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeMonth, Now: wednesday})
	if !sameIDs(got, "1", "2", "3") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestFilterSearchExactSubstring(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeAll, Search: "45821", Now: wednesday})
	if !sameIDs(got, "1") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestFilterSearchCaseInsensitiveAcrossFields(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeAll, Search: "abcd", Now: wednesday})
	if !sameIDs(got, "3") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}

	got = Filter(testEntries(), ViewState{Mode: RangeAll, Search: "NEW UNIT", Now: wednesday})
	if !sameIDs(got, "3") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestFilterPickedDayAppliesInWeekMode(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeWeek, PickedDay: "2025-01-06", Now: wednesday})
	if !sameIDs(got, "1") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}

	// Picked day is ignored outside week mode.
	got = Filter(testEntries(), ViewState{Mode: RangeAll, PickedDay: "2025-01-06", Now: wednesday})
	if len(got) != 5 {
		t.Fatalf("expected picked day ignored, got %d entries", len(got))
	}
}

func TestFilterComposesSearchAndRange(t *testing.T) {
	got := Filter(testEntries(), ViewState{Mode: RangeWeek, Search: "458", Now: wednesday})
	if !sameIDs(got, "1", "2") {
		t.Fatalf("unexpected entries: %v", ids(got))
	}
}

func TestTogglePickedDay(t *testing.T) {
	if got := TogglePickedDay("", "2025-01-06"); got != "2025-01-06" {
		t.Fatalf("got %q", got)
	}
	if got := TogglePickedDay("2025-01-06", "2025-01-06"); got != "" {
		t.Fatalf("expected cleared pick, got %q", got)
	}
	if got := TogglePickedDay("2025-01-06", "2025-01-07"); got != "2025-01-07" {
		t.Fatalf("got %q", got)
	}
}
