package entries

import (
	"context"
	"errors"
	"testing"
	"time"

	"flatrate/internal/domain/classify"
)

type fakeStore struct {
	rows map[string]WorkEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]WorkEntry)}
}

func (f *fakeStore) ListByOwner(_ context.Context, userID, employeeNumber string) ([]WorkEntry, error) {
	var out []WorkEntry
	for _, e := range f.rows {
		if e.UserID == userID && e.EmployeeNumber == employeeNumber && !e.Deleted {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) Get(_ context.Context, userID, employeeNumber, id string) (WorkEntry, error) {
	e, ok := f.rows[id]
	if !ok || e.UserID != userID || e.EmployeeNumber != employeeNumber {
		return WorkEntry{}, ErrNotFound
	}
	return e, nil
}

func (f *fakeStore) Insert(_ context.Context, e WorkEntry) error {
	f.rows[e.ID] = e
	return nil
}

func (f *fakeStore) Update(_ context.Context, e WorkEntry) error {
	if _, ok := f.rows[e.ID]; !ok {
		return ErrNotFound
	}
	f.rows[e.ID] = e
	return nil
}

func (f *fakeStore) SoftDelete(_ context.Context, _, _, id string, at time.Time) error {
	e, ok := f.rows[id]
	if !ok || e.Deleted {
		return ErrNotFound
	}
	e.Deleted = true
	e.DeletedAt = &at
	f.rows[id] = e
	return nil
}

func (f *fakeStore) Restore(_ context.Context, _, _, id string, at time.Time) error {
	e, ok := f.rows[id]
	if !ok || !e.Deleted {
		return ErrNotDeleted
	}
	e.Deleted = false
	e.DeletedAt = nil
	e.UpdatedAt = at
	f.rows[id] = e
	return nil
}

func (f *fakeStore) Purge(_ context.Context, _, _, id string) (string, error) {
	e, ok := f.rows[id]
	if !ok || !e.Deleted {
		return "", ErrNotDeleted
	}
	delete(f.rows, id)
	return e.PhotoPath, nil
}

func (f *fakeStore) SetPhotoPath(_ context.Context, _, _, id, path string, at time.Time) error {
	e, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	e.PhotoPath = path
	e.UpdatedAt = at
	f.rows[id] = e
	return nil
}

func (f *fakeStore) SetDealer(_ context.Context, _, _, id, dealer string, at time.Time) error {
	e, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	e.Dealer = dealer
	e.UpdatedAt = at
	f.rows[id] = e
	return nil
}

func (f *fakeStore) UpdateDayKeys(_ context.Context, id, dayKey, weekStartKey string) error {
	e, ok := f.rows[id]
	if !ok {
		return ErrNotFound
	}
	e.DayKey = dayKey
	e.WeekStartKey = weekStartKey
	f.rows[id] = e
	return nil
}

type fakeBlobs struct {
	objects map[string][]byte
	deleted []string
}

func newFakeBlobs() *fakeBlobs {
	return &fakeBlobs{objects: make(map[string][]byte)}
}

func (f *fakeBlobs) Put(_ context.Context, key, _ string, data []byte) error {
	f.objects[key] = data
	return nil
}

func (f *fakeBlobs) URL(_ context.Context, key string) (string, error) {
	return "/proofs/" + key, nil
}

func (f *fakeBlobs) Delete(_ context.Context, key string) error {
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type fakeLearner struct {
	names []string
}

func (f *fakeLearner) Learn(_ context.Context, _, _, name string, _, _ float64) error {
	f.names = append(f.names, name)
	return nil
}

type fakeRules struct {
	rules []classify.PrefixRule
}

func (f *fakeRules) ListRules(_ context.Context, _ string) ([]classify.PrefixRule, error) {
	return f.rules, nil
}

func newTestService(store *fakeStore) (*Service, *fakeLearner, *fakeBlobs) {
	learner := &fakeLearner{}
	blobs := newFakeBlobs()
	svc := NewService(store, learner, &fakeRules{}, blobs, 10*time.Second)
	return svc, learner, blobs
}

func validPayload() SavePayload {
	return SavePayload{
		RefKind:  RefKindRO,
		RefValue: "45821",
		WorkType: "Brakes",
		Hours:    2.5,
		Rate:     15.00,
	}
}

func TestCreateComputesEarningsAndKeys(t *testing.T) {
	store := newFakeStore()
	svc, learner, _ := newTestService(store)

	entry, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if entry.Earnings != 37.50 {
		t.Fatalf("earnings = %v, want 37.50", entry.Earnings)
	}
	if entry.DayKey == "" || entry.WeekStartKey == "" {
		t.Fatalf("expected derived keys, got %q / %q", entry.DayKey, entry.WeekStartKey)
	}
	if entry.ID == "" {
		t.Fatal("expected generated id")
	}
	if _, ok := store.rows[entry.ID]; !ok {
		t.Fatal("expected entry persisted")
	}
	if len(learner.names) != 1 || learner.names[0] != "Brakes" {
		t.Fatalf("expected preset learned, got %v", learner.names)
	}
}

func TestCreateRejectsInvalidPayload(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	payload := validPayload()
	payload.RefKind = "TICKET"
	payload.Hours = 0

	_, err := svc.Create(context.Background(), "u1", "e1", payload)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %+v", verr.Issues)
	}
	if len(store.rows) != 0 {
		t.Fatal("nothing should be persisted on validation failure")
	}
}

func TestCreateRejectsBadVIN8(t *testing.T) {
	svc, _, _ := newTestService(newFakeStore())

	payload := validPayload()
	payload.VIN8 = "ABIO1234" // I and O are not VIN characters

	_, err := svc.Create(context.Background(), "u1", "e1", payload)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if verr.Issues[0].Field != "vin8" {
		t.Fatalf("unexpected issue: %+v", verr.Issues)
	}
}

func TestEditPreservesIdentityAndRecomputes(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	payload := validPayload()
	payload.Hours = 3.0
	payload.Rate = 20.00

	edited, err := svc.Edit(context.Background(), "u1", "e1", created.ID, payload)
	if err != nil {
		t.Fatalf("edit failed: %v", err)
	}
	if edited.ID != created.ID {
		t.Fatal("id must not change on edit")
	}
	if !edited.CreatedAt.Equal(created.CreatedAt) {
		t.Fatal("created_at must not change on edit")
	}
	if edited.DayKey != created.DayKey || edited.WeekStartKey != created.WeekStartKey {
		t.Fatal("day keys must not change on edit")
	}
	if edited.Earnings != 60.00 {
		t.Fatalf("earnings = %v, want 60.00", edited.Earnings)
	}
}

func TestDeleteThenUndoWithinWindow(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	base := time.Now()
	svc.now = func() time.Time { return base }
	if err := svc.Delete(context.Background(), "u1", "e1", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.Get(context.Background(), "u1", "e1", created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted entry must not be readable")
	}

	svc.now = func() time.Time { return base.Add(5 * time.Second) }
	restored, err := svc.Undo(context.Background(), "u1", "e1", created.ID)
	if err != nil {
		t.Fatalf("undo failed: %v", err)
	}
	if restored.Hours != created.Hours || restored.Earnings != created.Earnings {
		t.Fatal("restored entry must keep its field values")
	}
}

func TestUndoExpiresAfterWindow(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	base := time.Now()
	svc.now = func() time.Time { return base }
	if err := svc.Delete(context.Background(), "u1", "e1", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}

	svc.now = func() time.Time { return base.Add(11 * time.Second) }
	if _, err := svc.Undo(context.Background(), "u1", "e1", created.ID); !errors.Is(err, ErrUndoExpired) {
		t.Fatalf("expected undo expired, got %v", err)
	}
}

func TestUndoRejectsLiveEntry(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.Undo(context.Background(), "u1", "e1", created.ID); !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("expected not-deleted error, got %v", err)
	}
}

func TestPurgeDeletesPhotoBlob(t *testing.T) {
	store := newFakeStore()
	svc, _, blobs := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.AttachPhoto(context.Background(), "u1", "e1", created.ID, "image/jpeg", []byte("img"), ""); err != nil {
		t.Fatalf("attach failed: %v", err)
	}
	if err := svc.Delete(context.Background(), "u1", "e1", created.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Purge(context.Background(), "u1", "e1", created.ID); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if len(blobs.deleted) != 1 {
		t.Fatalf("expected photo blob deleted, got %v", blobs.deleted)
	}
	if len(store.rows) != 0 {
		t.Fatal("expected row removed")
	}
}

func TestPurgeRequiresSoftDelete(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	created, err := svc.Create(context.Background(), "u1", "e1", validPayload())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := svc.Purge(context.Background(), "u1", "e1", created.ID); !errors.Is(err, ErrNotDeleted) {
		t.Fatalf("expected not-deleted error, got %v", err)
	}
}

func TestBackfillDayKeys(t *testing.T) {
	store := newFakeStore()
	svc, _, _ := newTestService(store)

	createdAt := time.Date(2025, time.January, 8, 10, 0, 0, 0, time.Local)
	store.rows["a"] = WorkEntry{ID: "a", UserID: "u1", EmployeeNumber: "e1", CreatedAt: createdAt, DayKey: "garbage"}
	store.rows["b"] = WorkEntry{ID: "b", UserID: "u1", EmployeeNumber: "e1", CreatedAt: createdAt, DayKey: "2025-01-08"}

	fixed, err := svc.BackfillDayKeys(context.Background(), "u1", "e1")
	if err != nil {
		t.Fatalf("backfill failed: %v", err)
	}
	if fixed != 1 {
		t.Fatalf("fixed = %d, want 1", fixed)
	}
	if store.rows["a"].DayKey != "2025-01-08" || store.rows["a"].WeekStartKey != "2025-01-06" {
		t.Fatalf("unexpected repaired keys: %+v", store.rows["a"])
	}
}

func TestCreateClassifiesDealerFromUserRule(t *testing.T) {
	store := newFakeStore()
	learner := &fakeLearner{}
	rules := &fakeRules{rules: []classify.PrefixRule{{Prefix: "ZQ", Brand: "Porsche"}}}
	svc := NewService(store, learner, rules, newFakeBlobs(), 10*time.Second)

	payload := validPayload()
	payload.RefKind = RefKindStock
	payload.RefValue = "ZQ1234"

	entry, err := svc.Create(context.Background(), "u1", "e1", payload)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if entry.Dealer != "Porsche" {
		t.Fatalf("dealer = %q, want Porsche", entry.Dealer)
	}
}
