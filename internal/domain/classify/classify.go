package classify

import (
	"regexp"
	"sort"
	"strings"
)

// Brand classification is heuristic and best-effort by contract: a wrong
// guess is expected output, not an error, and nothing in this package fails.

const BrandUnknown = "Unknown"

type PrefixRule struct {
	ID          string `json:"id,omitempty"`
	Prefix      string `json:"prefix"`
	Brand       string `json:"brand"`
	VehicleType string `json:"vehicleType,omitempty"`
}

type Guess struct {
	Brand       string `json:"brand"`
	VehicleType string `json:"vehicleType"`
}

// genericPrefixBrand maps a leading stock letter to the most common brand
// for that letter. Only consulted after every prefix rule has missed.
var genericPrefixBrand = map[byte]string{
	'A': "Acura",
	'B': "Audi",
	'C': "Chevrolet",
	'F': "Ford",
	'H': "Honda",
	'K': "Kia",
	'L': "Lexus",
	'M': "Mazda",
	'N': "Nissan",
	'S': "Subaru",
	'T': "Toyota",
	'V': "Volkswagen",
}

// specialPrefixRules classify stock-number conventions that say what the car
// is rather than whose it is. They match at offset 0 or 1, since some stores
// put the brand letter first.
var specialPrefixRules = []PrefixRule{
	{Prefix: "SL", VehicleType: "Service Loaner"},
	{Prefix: "XS", VehicleType: "Dealer Trade - New"},
	{Prefix: "DT", VehicleType: "Dealer Trade"},
	{Prefix: "P", VehicleType: "Curb Purchase"},
}

var brandKeywords = []struct {
	match []string
	brand string
}{
	{[]string{"VOLKSWAGEN", "VW"}, "Volkswagen"},
	{[]string{"AUDI"}, "Audi"},
	{[]string{"SUBARU"}, "Subaru"},
	{[]string{"ACURA"}, "Acura"},
	{[]string{"HONDA"}, "Honda"},
	{[]string{"TOYOTA"}, "Toyota"},
	{[]string{"FORD"}, "Ford"},
	{[]string{"CHEVROLET", "CHEVY"}, "Chevrolet"},
	{[]string{"NISSAN"}, "Nissan"},
	{[]string{"BMW"}, "BMW"},
	{[]string{"JEEP"}, "Jeep"},
	{[]string{"RAM"}, "Ram"},
	{[]string{"KIA"}, "Kia"},
	{[]string{"HYUNDAI"}, "Hyundai"},
	{[]string{"LEXUS"}, "Lexus"},
	{[]string{"MAZDA"}, "Mazda"},
	{[]string{"GMC"}, "GMC"},
}

var nonAlnum = regexp.MustCompile(`[^A-Z0-9]`)

// NormalizeStock uppercases, strips non-alphanumerics, and drops the
// trailing A that marks a reused stock number.
func NormalizeStock(stock string) string {
	clean := nonAlnum.ReplaceAllString(strings.ToUpper(stock), "")
	if len(clean) > 2 && strings.HasSuffix(clean, "A") {
		clean = clean[:len(clean)-1]
	}
	return clean
}

// DetectFromStock tries user rules longest-prefix-first, then the special
// prefix rules, then the generic single-letter table. A nil result means the
// stock string said nothing at all.
func DetectFromStock(stock string, rules []PrefixRule) *Guess {
	clean := NormalizeStock(stock)
	if clean == "" {
		return nil
	}

	ordered := make([]PrefixRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) > len(ordered[j].Prefix)
	})

	for _, rule := range ordered {
		prefix := strings.ToUpper(rule.Prefix)
		if prefix == "" || !strings.HasPrefix(clean, prefix) {
			continue
		}
		guess := &Guess{Brand: rule.Brand, VehicleType: rule.VehicleType}
		if guess.Brand == BrandUnknown {
			guess.Brand = ""
		}
		if guess.VehicleType == "" {
			guess.VehicleType = BrandUnknown
		}
		return guess
	}

	for _, rule := range specialPrefixRules {
		prefix := rule.Prefix
		if !strings.HasPrefix(clean, prefix) && !strings.HasPrefix(clean[1:], prefix) {
			continue
		}
		return &Guess{Brand: genericPrefixBrand[clean[0]], VehicleType: rule.VehicleType}
	}

	if brand, ok := genericPrefixBrand[clean[0]]; ok {
		return &Guess{Brand: brand, VehicleType: BrandUnknown}
	}
	return nil
}

// DetectBrandFromText scans OCR output for brand keyword occurrences.
func DetectBrandFromText(text string) string {
	if text == "" {
		return ""
	}
	upper := strings.ToUpper(text)
	for _, rule := range brandKeywords {
		for _, keyword := range rule.match {
			if strings.Contains(upper, keyword) {
				return rule.brand
			}
		}
	}
	return ""
}

// DetectBrand is the composed guess: stock rules first, OCR text second,
// Unknown last. Deterministic for a fixed (input, rules) pair.
func DetectBrand(stock, ocrText string, rules []PrefixRule) string {
	if hit := DetectFromStock(stock, rules); hit != nil && hit.Brand != "" {
		return hit.Brand
	}
	if brand := DetectBrandFromText(ocrText); brand != "" {
		return brand
	}
	return BrandUnknown
}
