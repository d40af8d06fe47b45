package export

import (
	"encoding/json"

	"flatrate/internal/domain/entries"
)

// EntriesJSON serializes the filtered list verbatim, pretty-printed. Field
// names are the canonical entry JSON tags; exports carry no version header
// and are one-directional evidence artifacts, not import material.
func EntriesJSON(list []entries.WorkEntry) string {
	if list == nil {
		list = []entries.WorkEntry{}
	}
	out, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(out)
}
