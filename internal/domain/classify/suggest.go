package classify

import (
	"regexp"
	"strconv"
)

// Suggestions are best-effort field pre-fills scraped from OCR text of a
// payroll sheet. Empty fields mean nothing recognizable was found.
type Suggestions struct {
	Ref   string `json:"ref"`
	VIN8  string `json:"vin8"`
	Hours string `json:"hours"`
}

var (
	roPattern = regexp.MustCompile(`\b(\d{5,8})\b`)
	// Eight chars of the VIN alphabet: no I, O, or Q.
	vin8Pattern  = regexp.MustCompile(`\b([A-HJ-NPR-Z0-9]{8})\b`)
	hoursPattern = regexp.MustCompile(`\b\d{1,2}\.\d\b`)
)

// ExtractSuggestions scrapes an RO-like number, a VIN8 token, and the
// largest plausible flagged-hours decimal from free text.
func ExtractSuggestions(text string) Suggestions {
	var s Suggestions

	if m := roPattern.FindStringSubmatch(text); m != nil {
		s.Ref = m[1]
	}
	if m := vin8Pattern.FindStringSubmatch(text); m != nil {
		s.VIN8 = m[1]
	}

	best := 0.0
	for _, raw := range hoursPattern.FindAllString(text, -1) {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || n <= 0 || n >= 20 {
			continue
		}
		if n > best {
			best = n
		}
	}
	if best > 0 {
		s.Hours = strconv.FormatFloat(best, 'f', -1, 64)
	}
	return s
}
