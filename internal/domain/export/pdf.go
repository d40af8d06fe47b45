package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// WeekSummaryPDF renders the week packet as a one-page PDF for sharing
// where HTML is awkward.
func WeekSummaryPDF(packet WeekPacket) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Flat-Rate Week Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Week: %s to %s", packet.WeekStart, packet.WeekEnd))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Logged hours: %.1f", packet.Totals.Hours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Logged earnings: $%.2f", packet.Totals.Dollars))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Payroll flagged hours: %.1f", packet.FlaggedHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Difference (flagged - logged): %+.1f", packet.Delta))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Entries")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 10)
	if len(packet.Entries) == 0 {
		pdf.Cell(0, 6, "No entries for this week.")
		pdf.Ln(6)
	}
	for _, e := range packet.Entries {
		line := fmt.Sprintf("%s  %s: %s  %s  %.1f hrs  $%.2f",
			e.DayKey, refLabel(e.RefKind), e.RefValue, e.WorkType, e.Hours, e.Earnings)
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
