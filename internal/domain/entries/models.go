package entries

import "time"

const (
	RefKindRO    = "RO"
	RefKindStock = "STOCK"
)

// WorkEntry is the canonical shape for one logged unit of paid work. Older
// client generations carried the same data under different field names; the
// storage layer translates everything into this shape once, so nothing
// downstream branches on variants.
type WorkEntry struct {
	ID             string     `json:"id"`
	UserID         string     `json:"-"`
	EmployeeNumber string     `json:"empId"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
	DayKey         string     `json:"dayKey"`
	WeekStartKey   string     `json:"weekStartKey"`
	RefKind        string     `json:"refType"`
	RefValue       string     `json:"ref"`
	VIN8           string     `json:"vin8,omitempty"`
	WorkType       string     `json:"type"`
	Notes          string     `json:"notes,omitempty"`
	Hours          float64    `json:"hours"`
	Rate           float64    `json:"rate"`
	Earnings       float64    `json:"earnings"`
	PhotoPath      string     `json:"photoPath,omitempty"`
	Dealer         string     `json:"dealer,omitempty"`
	Deleted        bool       `json:"-"`
	DeletedAt      *time.Time `json:"-"`
}

func (e WorkEntry) HasPhoto() bool {
	return e.PhotoPath != ""
}

// SavePayload is the validated input for creating or editing an entry.
// Hours carry one-tenth precision, rates cent precision; both must be
// positive. Earnings are never accepted from the caller.
type SavePayload struct {
	RefKind  string  `json:"refType" validate:"required,oneof=RO STOCK"`
	RefValue string  `json:"ref" validate:"required"`
	VIN8     string  `json:"vin8" validate:"omitempty,len=8,vin8"`
	WorkType string  `json:"type" validate:"required"`
	Notes    string  `json:"notes"`
	Hours    float64 `json:"hours" validate:"required,gt=0"`
	Rate     float64 `json:"rate" validate:"required,gt=0"`
	// PhotoDataURL optionally carries an inline base64 image; it is decoded
	// into the blob store, never persisted in the row.
	PhotoDataURL string `json:"photoDataUrl,omitempty"`
	// OCRText feeds the best-effort dealer classification only.
	OCRText string `json:"ocrText,omitempty"`
}

type RangeMode string

const (
	RangeDay   RangeMode = "day"
	RangeWeek  RangeMode = "week"
	RangeMonth RangeMode = "month"
	RangeAll   RangeMode = "all"
)

// ViewState is the explicit filter state for a list or rollup request.
// There is deliberately no ambient equivalent: every operation receives it.
type ViewState struct {
	Mode      RangeMode
	Search    string
	PickedDay string
	Now       time.Time
}
