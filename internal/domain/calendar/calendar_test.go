package calendar

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDayKey(t *testing.T) {
	got := DayKey(time.Date(2025, time.January, 8, 23, 59, 0, 0, time.Local))
	if got != "2025-01-08" {
		t.Fatalf("expected 2025-01-08, got %s", got)
	}
}

func TestStartOfWeekMonday(t *testing.T) {
	// 2025-01-08 is a Wednesday.
	got := StartOfWeek(date(2025, time.January, 8))
	if DayKey(got) != "2025-01-06" {
		t.Fatalf("expected 2025-01-06, got %s", DayKey(got))
	}
}

func TestStartOfWeekSunday(t *testing.T) {
	// Sunday belongs to the week that started the previous Monday.
	got := StartOfWeek(date(2025, time.January, 12))
	if DayKey(got) != "2025-01-06" {
		t.Fatalf("expected 2025-01-06, got %s", DayKey(got))
	}
}

func TestStartOfWeekOnMonday(t *testing.T) {
	got := StartOfWeek(date(2025, time.January, 6))
	if DayKey(got) != "2025-01-06" {
		t.Fatalf("expected 2025-01-06, got %s", DayKey(got))
	}
}

func TestEndOfWeek(t *testing.T) {
	got := EndOfWeek(date(2025, time.January, 8))
	if DayKey(got) != "2025-01-12" {
		t.Fatalf("expected 2025-01-12, got %s", DayKey(got))
	}
}

func TestInWeekInclusive(t *testing.T) {
	weekStart := date(2025, time.January, 6)

	cases := []struct {
		dayKey string
		want   bool
	}{
		{"2025-01-06", true},
		{"2025-01-08", true},
		{"2025-01-12", true},
		{"2025-01-05", false},
		{"2025-01-13", false},
		{"not-a-day", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := InWeek(tc.dayKey, weekStart); got != tc.want {
			t.Fatalf("InWeek(%q) = %v, want %v", tc.dayKey, got, tc.want)
		}
	}
}

func TestInMonth(t *testing.T) {
	anchor := date(2025, time.January, 15)
	if !InMonth("2025-01-01", anchor) || !InMonth("2025-01-31", anchor) {
		t.Fatal("expected month boundaries to be included")
	}
	if InMonth("2024-12-31", anchor) || InMonth("2025-02-01", anchor) {
		t.Fatal("expected adjacent months to be excluded")
	}
}

func TestWeekStartKey(t *testing.T) {
	if got := WeekStartKey("2025-01-08"); got != "2025-01-06" {
		t.Fatalf("expected 2025-01-06, got %s", got)
	}
	if got := WeekStartKey("garbage"); got != "" {
		t.Fatalf("expected empty key for malformed input, got %s", got)
	}
}

func TestDayKeyFromTimestamp(t *testing.T) {
	ts := time.Date(2025, time.March, 3, 12, 30, 0, 0, time.Local)
	if got := DayKeyFromTimestamp(ts); got != "2025-03-03" {
		t.Fatalf("expected 2025-03-03, got %s", got)
	}
}

func TestValidDayKey(t *testing.T) {
	if !ValidDayKey("2025-01-06") {
		t.Fatal("expected valid key")
	}
	for _, bad := range []string{"", "2025-1-6", "2025-13-01", "yesterday"} {
		if ValidDayKey(bad) {
			t.Fatalf("expected %q to be invalid", bad)
		}
	}
}
