package entries

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"flatrate/internal/domain/calendar"
	"flatrate/internal/domain/classify"
	"flatrate/internal/platform/blob"
)

// PresetLearner records (work type -> hours, rate) defaults on every save.
type PresetLearner interface {
	Learn(ctx context.Context, userID, employeeNumber, name string, hours, rate float64) error
}

// RuleSource supplies the owner's dealer prefix rules for classification.
type RuleSource interface {
	ListRules(ctx context.Context, userID string) ([]classify.PrefixRule, error)
}

type Service struct {
	store      StoreAPI
	presets    PresetLearner
	rules      RuleSource
	blobs      blob.Store
	undoWindow time.Duration
	validate   *validator.Validate
	now        func() time.Time
}

var vin8Chars = regexp.MustCompile(`^[A-HJ-NPR-Z0-9]{8}$`)

func NewService(store StoreAPI, presets PresetLearner, rules RuleSource, blobs blob.Store, undoWindow time.Duration) *Service {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("vin8", func(fl validator.FieldLevel) bool {
		return vin8Chars.MatchString(fl.Field().String())
	})
	return &Service{
		store:      store,
		presets:    presets,
		rules:      rules,
		blobs:      blobs,
		undoWindow: undoWindow,
		validate:   v,
		now:        time.Now,
	}
}

// Create validates the payload, derives day and week keys from the save
// instant, computes earnings, classifies the dealer best-effort, and learns
// the type preset. Nothing is written when validation fails.
func (s *Service) Create(ctx context.Context, userID, employeeNumber string, payload SavePayload) (WorkEntry, error) {
	payload = normalizePayload(payload)
	if err := s.checkPayload(payload); err != nil {
		return WorkEntry{}, err
	}

	now := s.now()
	dayKey := calendar.DayKey(now)
	entry := WorkEntry{
		ID:             uuid.NewString(),
		UserID:         userID,
		EmployeeNumber: employeeNumber,
		CreatedAt:      now,
		UpdatedAt:      now,
		DayKey:         dayKey,
		WeekStartKey:   calendar.WeekStartKey(dayKey),
		RefKind:        payload.RefKind,
		RefValue:       payload.RefValue,
		VIN8:           payload.VIN8,
		WorkType:       payload.WorkType,
		Notes:          payload.Notes,
		Hours:          NormalizeHours(payload.Hours),
		Rate:           NormalizeRate(payload.Rate),
		Dealer:         s.classifyDealer(ctx, userID, payload),
	}
	entry.Earnings = ComputeEarnings(entry.Hours, entry.Rate)

	if payload.PhotoDataURL != "" {
		path, err := s.storeInlinePhoto(ctx, entry, payload.PhotoDataURL)
		if err != nil {
			return WorkEntry{}, err
		}
		entry.PhotoPath = path
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		return WorkEntry{}, err
	}

	s.learnPreset(ctx, entry)
	return entry, nil
}

// Edit mutates an entry in place: id, creation timestamp, and the keys
// derived from it are preserved; earnings are recomputed.
func (s *Service) Edit(ctx context.Context, userID, employeeNumber, id string, payload SavePayload) (WorkEntry, error) {
	payload = normalizePayload(payload)
	if err := s.checkPayload(payload); err != nil {
		return WorkEntry{}, err
	}

	entry, err := s.store.Get(ctx, userID, employeeNumber, id)
	if err != nil {
		return WorkEntry{}, err
	}
	if entry.Deleted {
		return WorkEntry{}, ErrNotFound
	}

	entry.UpdatedAt = s.now()
	entry.RefKind = payload.RefKind
	entry.RefValue = payload.RefValue
	entry.VIN8 = payload.VIN8
	entry.WorkType = payload.WorkType
	entry.Notes = payload.Notes
	entry.Hours = NormalizeHours(payload.Hours)
	entry.Rate = NormalizeRate(payload.Rate)
	entry.Earnings = ComputeEarnings(entry.Hours, entry.Rate)
	entry.Dealer = s.classifyDealer(ctx, userID, payload)

	if payload.PhotoDataURL != "" {
		path, err := s.storeInlinePhoto(ctx, entry, payload.PhotoDataURL)
		if err != nil {
			return WorkEntry{}, err
		}
		entry.PhotoPath = path
	}

	if err := s.store.Update(ctx, entry); err != nil {
		return WorkEntry{}, err
	}

	s.learnPreset(ctx, entry)
	return entry, nil
}

func (s *Service) List(ctx context.Context, userID, employeeNumber string, state ViewState) ([]WorkEntry, error) {
	list, err := s.store.ListByOwner(ctx, userID, employeeNumber)
	if err != nil {
		return nil, err
	}
	list = s.repairDayKeys(list)
	return Filter(list, state), nil
}

func (s *Service) Get(ctx context.Context, userID, employeeNumber, id string) (WorkEntry, error) {
	entry, err := s.store.Get(ctx, userID, employeeNumber, id)
	if err != nil {
		return WorkEntry{}, err
	}
	if entry.Deleted {
		return WorkEntry{}, ErrNotFound
	}
	return entry, nil
}

// Delete soft-deletes: the row is flagged, not removed, so Undo can restore
// it within the undo window.
func (s *Service) Delete(ctx context.Context, userID, employeeNumber, id string) error {
	return s.store.SoftDelete(ctx, userID, employeeNumber, id, s.now())
}

// Undo restores a soft-deleted entry with identical field values. Past the
// expiry window the delete is final from the API's perspective.
func (s *Service) Undo(ctx context.Context, userID, employeeNumber, id string) (WorkEntry, error) {
	entry, err := s.store.Get(ctx, userID, employeeNumber, id)
	if err != nil {
		return WorkEntry{}, err
	}
	if !entry.Deleted {
		return WorkEntry{}, ErrNotDeleted
	}
	if entry.DeletedAt != nil && s.now().Sub(*entry.DeletedAt) > s.undoWindow {
		return WorkEntry{}, ErrUndoExpired
	}
	if err := s.store.Restore(ctx, userID, employeeNumber, id, s.now()); err != nil {
		return WorkEntry{}, err
	}
	entry.Deleted = false
	entry.DeletedAt = nil
	return entry, nil
}

// Purge hard-deletes a soft-deleted entry and its stored photo. This is the
// local-only mode's delete, kept as an explicit cleanup call.
func (s *Service) Purge(ctx context.Context, userID, employeeNumber, id string) error {
	photoPath, err := s.store.Purge(ctx, userID, employeeNumber, id)
	if err != nil {
		return err
	}
	if photoPath != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, photoPath); err != nil {
			slog.Warn("purge: photo delete failed", "path", photoPath, "err", err)
		}
	}
	return nil
}

// AttachPhoto stores raw image bytes for an existing entry and re-runs the
// dealer guess with the OCR text, if any.
func (s *Service) AttachPhoto(ctx context.Context, userID, employeeNumber, id, contentType string, data []byte, ocrText string) (string, error) {
	entry, err := s.Get(ctx, userID, employeeNumber, id)
	if err != nil {
		return "", err
	}

	key := blob.ObjectKey(userID, employeeNumber, id, contentType)
	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		return "", err
	}
	if err := s.store.SetPhotoPath(ctx, userID, employeeNumber, id, key, s.now()); err != nil {
		return "", err
	}

	if ocrText != "" {
		dealer := s.classifyDealer(ctx, userID, SavePayload{RefKind: entry.RefKind, RefValue: entry.RefValue, OCRText: ocrText})
		if err := s.store.SetDealer(ctx, userID, employeeNumber, id, dealer, s.now()); err != nil {
			slog.Warn("dealer update failed", "entry", id, "err", err)
		}
	}
	return key, nil
}

// PhotoURL resolves a display URL for the entry's photo; for GCS that is a
// short-lived signed URL fetched on demand.
func (s *Service) PhotoURL(ctx context.Context, userID, employeeNumber, id string) (string, error) {
	entry, err := s.Get(ctx, userID, employeeNumber, id)
	if err != nil {
		return "", err
	}
	if entry.PhotoPath == "" {
		return "", nil
	}
	return s.blobs.URL(ctx, entry.PhotoPath)
}

// BackfillDayKeys repairs entries whose day key is missing or malformed by
// re-deriving it from the creation timestamp. Returns the number fixed.
func (s *Service) BackfillDayKeys(ctx context.Context, userID, employeeNumber string) (int, error) {
	list, err := s.store.ListByOwner(ctx, userID, employeeNumber)
	if err != nil {
		return 0, err
	}

	fixed := 0
	for _, e := range list {
		if calendar.ValidDayKey(e.DayKey) {
			continue
		}
		dayKey := calendar.DayKeyFromTimestamp(e.CreatedAt)
		if err := s.store.UpdateDayKeys(ctx, e.ID, dayKey, calendar.WeekStartKey(dayKey)); err != nil {
			return fixed, err
		}
		fixed++
	}
	return fixed, nil
}

// repairDayKeys patches malformed day keys in memory so a bad legacy row is
// bucketed instead of silently dropped from every range.
func (s *Service) repairDayKeys(list []WorkEntry) []WorkEntry {
	for i := range list {
		if calendar.ValidDayKey(list[i].DayKey) {
			continue
		}
		dayKey := calendar.DayKeyFromTimestamp(list[i].CreatedAt)
		list[i].DayKey = dayKey
		list[i].WeekStartKey = calendar.WeekStartKey(dayKey)
	}
	return list
}

// classifyDealer never fails: a miss is "Unknown" by contract.
func (s *Service) classifyDealer(ctx context.Context, userID string, payload SavePayload) string {
	var rules []classify.PrefixRule
	if s.rules != nil {
		loaded, err := s.rules.ListRules(ctx, userID)
		if err != nil {
			slog.Warn("prefix rules unavailable, using built-ins", "err", err)
		} else {
			rules = loaded
		}
	}
	return classify.DetectBrand(payload.RefValue, payload.OCRText, rules)
}

func (s *Service) learnPreset(ctx context.Context, entry WorkEntry) {
	if s.presets == nil {
		return
	}
	if err := s.presets.Learn(ctx, entry.UserID, entry.EmployeeNumber, entry.WorkType, entry.Hours, entry.Rate); err != nil {
		slog.Warn("type preset learn failed", "type", entry.WorkType, "err", err)
	}
}

func (s *Service) storeInlinePhoto(ctx context.Context, entry WorkEntry, dataURL string) (string, error) {
	contentType, data, err := blob.DecodeDataURL(dataURL)
	if err != nil {
		return "", &ValidationError{Issues: []FieldIssue{{Field: "photoDataUrl", Reason: "must be a base64 data url with an image/jpeg or image/png payload"}}}
	}
	key := blob.ObjectKey(entry.UserID, entry.EmployeeNumber, entry.ID, contentType)
	if err := s.blobs.Put(ctx, key, contentType, data); err != nil {
		return "", err
	}
	return key, nil
}

func normalizePayload(p SavePayload) SavePayload {
	p.RefKind = strings.ToUpper(strings.TrimSpace(p.RefKind))
	p.RefValue = strings.TrimSpace(p.RefValue)
	p.VIN8 = strings.ToUpper(strings.TrimSpace(p.VIN8))
	p.WorkType = strings.TrimSpace(p.WorkType)
	p.Notes = strings.TrimSpace(p.Notes)
	return p
}

func (s *Service) checkPayload(payload SavePayload) error {
	err := s.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return err
	}

	var issues []FieldIssue
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			issues = append(issues, FieldIssue{Field: jsonField(fe.Field()), Reason: reasonFor(fe)})
		}
	}
	return &ValidationError{Issues: issues}
}

func jsonField(structField string) string {
	switch structField {
	case "RefKind":
		return "refType"
	case "RefValue":
		return "ref"
	case "VIN8":
		return "vin8"
	case "WorkType":
		return "type"
	case "Hours":
		return "hours"
	case "Rate":
		return "rate"
	default:
		return strings.ToLower(structField)
	}
}

func reasonFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be RO or STOCK"
	case "gt":
		return "must be greater than zero"
	case "len", "vin8":
		return "must be 8 characters from the VIN alphabet"
	default:
		return "is invalid"
	}
}
