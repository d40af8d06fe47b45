package calendar

import (
	"fmt"
	"time"
)

// Day keys are YYYY-MM-DD strings built from local wall-clock components.
// No timezone conversion happens anywhere in this package: the same instant
// may produce different day keys on devices in different zones, which is the
// accepted behavior for a single-user log.

const dayKeyLayout = "2006-01-02"

func DayKey(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}

// ParseDayKey parses a strict YYYY-MM-DD day key into a local midnight date.
func ParseDayKey(key string) (time.Time, error) {
	parsed, err := time.ParseInLocation(dayKeyLayout, key, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return parsed, nil
}

// StartOfWeek returns local midnight of the Monday beginning t's week.
func StartOfWeek(t time.Time) time.Time {
	day := truncateToDay(t)
	diff := int(day.Weekday()) - int(time.Monday)
	if day.Weekday() == time.Sunday {
		diff = 6
	}
	return day.AddDate(0, 0, -diff)
}

// EndOfWeek returns local midnight of the Sunday ending t's week.
func EndOfWeek(t time.Time) time.Time {
	return StartOfWeek(t).AddDate(0, 0, 6)
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func EndOfMonth(t time.Time) time.Time {
	return StartOfMonth(t).AddDate(0, 1, -1)
}

// InWeek reports whether a day key falls in [weekStart, weekStart+6d]
// inclusive. Malformed keys are excluded, never an error.
func InWeek(dayKey string, weekStart time.Time) bool {
	day, err := ParseDayKey(dayKey)
	if err != nil {
		return false
	}
	start := truncateToDay(weekStart)
	end := start.AddDate(0, 0, 6)
	return !day.Before(start) && !day.After(end)
}

// InMonth reports whether a day key falls inside monthStart's calendar month.
func InMonth(dayKey string, monthStart time.Time) bool {
	day, err := ParseDayKey(dayKey)
	if err != nil {
		return false
	}
	start := StartOfMonth(monthStart)
	end := EndOfMonth(monthStart)
	return !day.Before(start) && !day.After(end)
}

// WeekStartKey returns the Monday day key for the week containing dayKey,
// or "" when the key does not parse.
func WeekStartKey(dayKey string) string {
	day, err := ParseDayKey(dayKey)
	if err != nil {
		return ""
	}
	return DayKey(StartOfWeek(day))
}

// DayKeyFromTimestamp re-derives a day key from a creation timestamp, for
// repairing rows whose key is missing or malformed.
func DayKeyFromTimestamp(t time.Time) string {
	return DayKey(t.Local())
}

func ValidDayKey(key string) bool {
	_, err := ParseDayKey(key)
	return err == nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
