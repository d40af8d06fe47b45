package rollup

import (
	"time"

	"github.com/shopspring/decimal"

	"flatrate/internal/domain/calendar"
	"flatrate/internal/domain/entries"
)

type Totals struct {
	Hours    float64 `json:"hours"`
	Dollars  float64 `json:"dollars"`
	Count    int     `json:"count"`
	AvgHours float64 `json:"avgHours"`
}

type DayBucket struct {
	Index  int    `json:"index"`
	Label  string `json:"label"`
	DayKey string `json:"dayKey"`
	Totals Totals `json:"totals"`
}

type WeekComparison struct {
	ThisWeekKey string `json:"thisWeekKey"`
	LastWeekKey string `json:"lastWeekKey"`
	ThisWeek    Totals `json:"thisWeek"`
	LastWeek    Totals `json:"lastWeek"`
	Diff        Totals `json:"diff"`
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Aggregate reduces entries to summed totals. It is pure, never fails, and
// order-independent. Hours round to one decimal, dollars to two, half up.
func Aggregate(list []entries.WorkEntry) Totals {
	hours := decimal.Zero
	dollars := decimal.Zero
	for _, e := range list {
		hours = hours.Add(decimal.NewFromFloat(e.Hours))
		dollars = dollars.Add(decimal.NewFromFloat(e.Earnings))
	}

	totals := Totals{
		Hours:   round1(hours),
		Dollars: round2(dollars),
		Count:   len(list),
	}
	if totals.Count > 0 {
		totals.AvgHours = totals.Hours / float64(totals.Count)
	}
	return totals
}

// WeekBreakdown buckets a week's entries into seven daily aggregates in
// Monday through Sunday order. Each day is aggregated independently.
func WeekBreakdown(list []entries.WorkEntry, weekStart time.Time) []DayBucket {
	days := make([]DayBucket, 0, 7)
	for i := 0; i < 7; i++ {
		key := calendar.DayKey(weekStart.AddDate(0, 0, i))
		var dayEntries []entries.WorkEntry
		for _, e := range list {
			if e.DayKey == key {
				dayEntries = append(dayEntries, e)
			}
		}
		days = append(days, DayBucket{
			Index:  i,
			Label:  weekdayLabels[i],
			DayKey: key,
			Totals: Aggregate(dayEntries),
		})
	}
	return days
}

// CompareWeeks partitions entries by week-start key into this week and last
// week relative to now and reports the signed difference (this - last).
func CompareWeeks(list []entries.WorkEntry, now time.Time) WeekComparison {
	thisStart := calendar.StartOfWeek(now)
	thisKey := calendar.DayKey(thisStart)
	lastKey := calendar.DayKey(thisStart.AddDate(0, 0, -7))

	var thisWeek, lastWeek []entries.WorkEntry
	for _, e := range list {
		switch e.WeekStartKey {
		case thisKey:
			thisWeek = append(thisWeek, e)
		case lastKey:
			lastWeek = append(lastWeek, e)
		}
	}

	thisTotals := Aggregate(thisWeek)
	lastTotals := Aggregate(lastWeek)
	return WeekComparison{
		ThisWeekKey: thisKey,
		LastWeekKey: lastKey,
		ThisWeek:    thisTotals,
		LastWeek:    lastTotals,
		Diff: Totals{
			Hours:    round1(decimal.NewFromFloat(thisTotals.Hours).Sub(decimal.NewFromFloat(lastTotals.Hours))),
			Dollars:  round2(decimal.NewFromFloat(thisTotals.Dollars).Sub(decimal.NewFromFloat(lastTotals.Dollars))),
			Count:    thisTotals.Count - lastTotals.Count,
			AvgHours: round1(decimal.NewFromFloat(thisTotals.AvgHours).Sub(decimal.NewFromFloat(lastTotals.AvgHours))),
		},
	}
}

// FlaggedDelta is the payroll comparison figure: flagged hours minus logged
// hours, one decimal.
func FlaggedDelta(flaggedHours, loggedHours float64) float64 {
	return round1(decimal.NewFromFloat(flaggedHours).Sub(decimal.NewFromFloat(loggedHours)))
}

func round1(d decimal.Decimal) float64 {
	f, _ := d.Round(1).Float64()
	return f
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}
