package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"flatrate/internal/domain/entries"
	"flatrate/internal/domain/rollup"
)

// WeekPacket is the assembled evidence for one week: totals, the payroll
// comparison, the entry list, and the optional payroll photo. Every
// formatter in this package consumes it without mutating it.
type WeekPacket struct {
	WeekStart    string
	WeekEnd      string
	GeneratedAt  time.Time
	Totals       rollup.Totals
	FlaggedHours float64
	// Delta is flagged minus logged hours.
	Delta   float64
	Entries []entries.WorkEntry
	// PhotoSrc is a browser-usable image source (data URL or signed URL);
	// empty means no payroll photo was saved for the week.
	PhotoSrc string
	OCRText  string
}

// BuildWeekPacket derives the packet from a week's already-filtered entries.
func BuildWeekPacket(weekEntries []entries.WorkEntry, weekStart, weekEnd string, flaggedHours float64, photoSrc, ocrText string, now time.Time) WeekPacket {
	ordered := make([]entries.WorkEntry, len(weekEntries))
	copy(ordered, weekEntries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	totals := rollup.Aggregate(ordered)
	return WeekPacket{
		WeekStart:    weekStart,
		WeekEnd:      weekEnd,
		GeneratedAt:  now,
		Totals:       totals,
		FlaggedHours: flaggedHours,
		Delta:        rollup.FlaggedDelta(flaggedHours, totals.Hours),
		Entries:      ordered,
		PhotoSrc:     photoSrc,
		OCRText:      ocrText,
	}
}

// WeekSummaryText is the plain-text week summary export.
func WeekSummaryText(packet WeekPacket) string {
	var b strings.Builder
	b.WriteString("FLAT-RATE LOG - WEEK SUMMARY\n")
	fmt.Fprintf(&b, "Week: %s -> %s\n", packet.WeekStart, packet.WeekEnd)
	fmt.Fprintf(&b, "Logged hours: %.1f\n", packet.Totals.Hours)
	fmt.Fprintf(&b, "Logged $: $%.2f\n", packet.Totals.Dollars)
	fmt.Fprintf(&b, "Payroll flagged hours: %.1f\n", packet.FlaggedHours)
	fmt.Fprintf(&b, "Delta (Flagged - Logged): %+.1f\n", packet.Delta)
	b.WriteString("\nEntries:\n")
	if len(packet.Entries) == 0 {
		b.WriteString("(none)\n")
		return b.String()
	}
	for _, e := range packet.Entries {
		fmt.Fprintf(&b, "%s %s | %s: %s | %s | %.1f hrs | $%.2f\n",
			e.DayKey, e.CreatedAt.Format("15:04"), refLabel(e.RefKind), e.RefValue, e.WorkType, e.Hours, e.Earnings)
	}
	return b.String()
}

func refLabel(refKind string) string {
	if refKind == entries.RefKindStock {
		return "STK"
	}
	return "RO"
}
