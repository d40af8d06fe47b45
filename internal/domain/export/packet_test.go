package export

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"flatrate/internal/domain/entries"
)

func weekEntries() []entries.WorkEntry {
	return []entries.WorkEntry{
		{
			ID:        "b",
			CreatedAt: time.Date(2025, time.January, 7, 14, 0, 0, 0, time.UTC),
			DayKey:    "2025-01-07",
			RefKind:   entries.RefKindStock,
			RefValue:  "T12345",
			WorkType:  "PDI",
			Hours:     1.0,
			Rate:      15.00,
			Earnings:  15.00,
		},
		{
			ID:        "a",
			CreatedAt: time.Date(2025, time.January, 6, 9, 0, 0, 0, time.UTC),
			DayKey:    "2025-01-06",
			RefKind:   entries.RefKindRO,
			RefValue:  "45821",
			WorkType:  "Brakes",
			Hours:     2.5,
			Rate:      15.00,
			Earnings:  37.50,
		},
	}
}

func TestBuildWeekPacket(t *testing.T) {
	now := time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
	packet := BuildWeekPacket(weekEntries(), "2025-01-06", "2025-01-12", 4.0, "", "", now)

	if packet.Totals.Hours != 3.5 || packet.Totals.Dollars != 52.50 {
		t.Fatalf("unexpected totals: %+v", packet.Totals)
	}
	if packet.Delta != 0.5 {
		t.Fatalf("delta = %v, want 0.5", packet.Delta)
	}
	if packet.Entries[0].ID != "a" || packet.Entries[1].ID != "b" {
		t.Fatal("entries must be ordered by creation time")
	}
}

func TestWeekSummaryText(t *testing.T) {
	now := time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
	packet := BuildWeekPacket(weekEntries(), "2025-01-06", "2025-01-12", 4.0, "", "", now)

	out := WeekSummaryText(packet)
	for _, want := range []string{
		"Week: 2025-01-06 -> 2025-01-12",
		"Logged hours: 3.5",
		"Payroll flagged hours: 4.0",
		"Delta (Flagged - Logged): +0.5",
		"RO: 45821",
		"STK: T12345",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in summary:\n%s", want, out)
		}
	}
}

func TestWeekSummaryTextEmptyWeek(t *testing.T) {
	packet := BuildWeekPacket(nil, "2025-01-06", "2025-01-12", 0, "", "", time.Now())
	if !strings.Contains(WeekSummaryText(packet), "(none)") {
		t.Fatal("expected empty-week placeholder")
	}
}

func TestEntriesJSONShape(t *testing.T) {
	out := EntriesJSON(weekEntries())

	var decoded []map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("json parse failed: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(decoded))
	}
	if decoded[0]["refType"] != "STOCK" || decoded[0]["ref"] != "T12345" {
		t.Fatalf("unexpected fields: %v", decoded[0])
	}
	if _, ok := decoded[0]["userId"]; ok {
		t.Fatal("internal owner id must not be exported")
	}
}

func TestEntriesJSONNil(t *testing.T) {
	if got := EntriesJSON(nil); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestProofPacketHTMLPlaceholders(t *testing.T) {
	packet := BuildWeekPacket(nil, "2025-01-06", "2025-01-12", 0, "", "", time.Now())
	out := ProofPacketHTML(packet)

	if !strings.Contains(out, "No payroll photo saved for this week.") {
		t.Fatal("expected photo placeholder")
	}
	if !strings.Contains(out, "No entries for this week.") {
		t.Fatal("expected empty entries placeholder")
	}
}

func TestProofPacketHTMLEscapesNotes(t *testing.T) {
	list := weekEntries()
	list[0].Notes = `<script>alert("x")</script>`
	packet := BuildWeekPacket(list, "2025-01-06", "2025-01-12", 0, "", "", time.Now())

	out := ProofPacketHTML(packet)
	if strings.Contains(out, "<script>alert") {
		t.Fatal("notes must be escaped")
	}
	if !strings.Contains(out, "45821") {
		t.Fatal("expected entry content in packet")
	}
}

func TestWeekSummaryPDFProducesDocument(t *testing.T) {
	now := time.Date(2025, time.January, 10, 8, 0, 0, 0, time.UTC)
	packet := BuildWeekPacket(weekEntries(), "2025-01-06", "2025-01-12", 4.0, "", "", now)

	doc, err := WeekSummaryPDF(packet)
	if err != nil {
		t.Fatalf("pdf render failed: %v", err)
	}
	if len(doc) == 0 || !strings.HasPrefix(string(doc[:5]), "%PDF-") {
		t.Fatal("expected a pdf document")
	}
}
