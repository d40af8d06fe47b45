package export

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"time"

	"flatrate/internal/domain/entries"
)

// EntriesCSV renders the filtered list with a fixed column order. The owner
// column appears only for all-owner exports. encoding/csv applies RFC 4180
// quoting, so commas, quotes, and newlines in notes survive a round trip.
func EntriesCSV(list []entries.WorkEntry, includeOwner bool) string {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	header := []string{"createdAt", "dayKey", "refType", "ref", "vin8", "type", "hours", "rate", "earnings", "notes", "hasPhoto"}
	if includeOwner {
		header = append([]string{"empId"}, header...)
	}
	_ = writer.Write(header)

	for _, e := range list {
		row := []string{
			e.CreatedAt.Format(time.RFC3339),
			e.DayKey,
			e.RefKind,
			e.RefValue,
			e.VIN8,
			e.WorkType,
			strconv.FormatFloat(e.Hours, 'f', -1, 64),
			strconv.FormatFloat(e.Rate, 'f', 2, 64),
			strconv.FormatFloat(e.Earnings, 'f', 2, 64),
			e.Notes,
			yesNo(e.HasPhoto()),
		}
		if includeOwner {
			row = append([]string{e.EmployeeNumber}, row...)
		}
		_ = writer.Write(row)
	}

	writer.Flush()
	return buf.String()
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
