package entries

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const entryColumns = `
    id, user_id, employee_number, created_at, updated_at,
    day_key, week_start_key, ref_kind, ref_value, COALESCE(vin8, ''),
    work_type, COALESCE(notes, ''), hours, rate, earnings,
    COALESCE(photo_path, ''), COALESCE(dealer, ''), is_deleted, deleted_at`

func scanEntry(row pgx.Row) (WorkEntry, error) {
	var e WorkEntry
	err := row.Scan(
		&e.ID, &e.UserID, &e.EmployeeNumber, &e.CreatedAt, &e.UpdatedAt,
		&e.DayKey, &e.WeekStartKey, &e.RefKind, &e.RefValue, &e.VIN8,
		&e.WorkType, &e.Notes, &e.Hours, &e.Rate, &e.Earnings,
		&e.PhotoPath, &e.Dealer, &e.Deleted, &e.DeletedAt,
	)
	return e, err
}

// ListByOwner returns the owner's live entries, newest first.
func (s *Store) ListByOwner(ctx context.Context, userID, employeeNumber string) ([]WorkEntry, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+entryColumns+`
    FROM work_entries
    WHERE user_id = $1 AND employee_number = $2 AND NOT is_deleted
    ORDER BY day_key DESC, created_at DESC
  `, userID, employeeNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []WorkEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Get fetches one entry regardless of its soft-delete state.
func (s *Store) Get(ctx context.Context, userID, employeeNumber, id string) (WorkEntry, error) {
	e, err := scanEntry(s.DB.QueryRow(ctx, `
    SELECT `+entryColumns+`
    FROM work_entries
    WHERE user_id = $1 AND employee_number = $2 AND id = $3
  `, userID, employeeNumber, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return WorkEntry{}, ErrNotFound
	}
	return e, err
}

func (s *Store) Insert(ctx context.Context, e WorkEntry) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO work_entries (
      id, user_id, employee_number, created_at, updated_at,
      day_key, week_start_key, ref_kind, ref_value, vin8,
      work_type, notes, hours, rate, earnings, photo_path, dealer, is_deleted
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NULLIF($16,''),NULLIF($17,''),false)
  `, e.ID, e.UserID, e.EmployeeNumber, e.CreatedAt, e.UpdatedAt,
		e.DayKey, e.WeekStartKey, e.RefKind, e.RefValue, e.VIN8,
		e.WorkType, e.Notes, e.Hours, e.Rate, e.Earnings, e.PhotoPath, e.Dealer)
	return err
}

// Update rewrites the mutable fields; id and created_at never change.
func (s *Store) Update(ctx context.Context, e WorkEntry) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET updated_at = $4, ref_kind = $5, ref_value = $6, vin8 = $7,
        work_type = $8, notes = $9, hours = $10, rate = $11, earnings = $12,
        photo_path = NULLIF($13,''), dealer = NULLIF($14,'')
    WHERE user_id = $1 AND employee_number = $2 AND id = $3
  `, e.UserID, e.EmployeeNumber, e.ID, e.UpdatedAt, e.RefKind, e.RefValue,
		e.VIN8, e.WorkType, e.Notes, e.Hours, e.Rate, e.Earnings, e.PhotoPath, e.Dealer)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SoftDelete(ctx context.Context, userID, employeeNumber, id string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET is_deleted = true, deleted_at = $4, updated_at = $4
    WHERE user_id = $1 AND employee_number = $2 AND id = $3 AND NOT is_deleted
  `, userID, employeeNumber, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Restore(ctx context.Context, userID, employeeNumber, id string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET is_deleted = false, deleted_at = NULL, updated_at = $4
    WHERE user_id = $1 AND employee_number = $2 AND id = $3 AND is_deleted
  `, userID, employeeNumber, id, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotDeleted
	}
	return nil
}

// Purge hard-deletes a soft-deleted row and reports its photo path so the
// caller can drop the blob too.
func (s *Store) Purge(ctx context.Context, userID, employeeNumber, id string) (string, error) {
	var photoPath string
	err := s.DB.QueryRow(ctx, `
    DELETE FROM work_entries
    WHERE user_id = $1 AND employee_number = $2 AND id = $3 AND is_deleted
    RETURNING COALESCE(photo_path, '')
  `, userID, employeeNumber, id).Scan(&photoPath)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotDeleted
	}
	return photoPath, err
}

func (s *Store) SetPhotoPath(ctx context.Context, userID, employeeNumber, id, path string, at time.Time) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET photo_path = NULLIF($4,''), updated_at = $5
    WHERE user_id = $1 AND employee_number = $2 AND id = $3
  `, userID, employeeNumber, id, path, at)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) SetDealer(ctx context.Context, userID, employeeNumber, id, dealer string, at time.Time) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET dealer = NULLIF($4,''), updated_at = $5
    WHERE user_id = $1 AND employee_number = $2 AND id = $3
  `, userID, employeeNumber, id, dealer, at)
	return err
}

func (s *Store) UpdateDayKeys(ctx context.Context, id, dayKey, weekStartKey string) error {
	_, err := s.DB.Exec(ctx, `
    UPDATE work_entries
    SET day_key = $2, week_start_key = $3
    WHERE id = $1
  `, id, dayKey, weekStartKey)
	return err
}
