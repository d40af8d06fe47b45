package shared

import (
	"net/http"

	"flatrate/internal/domain/entries"
	"flatrate/internal/transport/http/api"
)

func FailValidation(w http.ResponseWriter, requestID string, issues []entries.FieldIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}
