package entries

import "errors"

var (
	ErrNotFound    = errors.New("entry not found")
	ErrNotDeleted  = errors.New("entry is not deleted")
	ErrUndoExpired = errors.New("undo window expired")
)

type FieldIssue struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every rejected field; nothing is persisted when it
// is returned.
type ValidationError struct {
	Issues []FieldIssue
}

func (e *ValidationError) Error() string {
	return "entry validation failed"
}
