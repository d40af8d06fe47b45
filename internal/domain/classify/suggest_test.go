package classify

import "testing"

func TestExtractSuggestions(t *testing.T) {
	text := "RO 45821 VIN WAUZZZ8V 2.5 hrs plus 0.8 diag"
	got := ExtractSuggestions(text)

	if got.Ref != "45821" {
		t.Fatalf("ref = %q, want 45821", got.Ref)
	}
	if got.VIN8 != "WAUZZZ8V" {
		t.Fatalf("vin8 = %q, want WAUZZZ8V", got.VIN8)
	}
	if got.Hours != "2.5" {
		t.Fatalf("hours = %q, want 2.5", got.Hours)
	}
}

func TestExtractSuggestionsPicksLargestPlausibleHours(t *testing.T) {
	got := ExtractSuggestions("0.5 then 12.3 then 99.9")
	if got.Hours != "12.3" {
		t.Fatalf("hours = %q, want 12.3", got.Hours)
	}
}

func TestExtractSuggestionsEmptyText(t *testing.T) {
	got := ExtractSuggestions("")
	if got.Ref != "" || got.VIN8 != "" || got.Hours != "" {
		t.Fatalf("expected empty suggestions, got %+v", got)
	}
}

func TestExtractSuggestionsIgnoresShortNumbers(t *testing.T) {
	got := ExtractSuggestions("bay 4 ticket 991")
	if got.Ref != "" {
		t.Fatalf("ref = %q, want empty", got.Ref)
	}
}
