package weeks

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WeekFlag holds the payroll-reported "flagged hours" figure for one week.
// It is only ever set by explicit user action and serves purely as the
// comparison baseline against logged hours.
type WeekFlag struct {
	WeekStartKey string    `json:"weekStartKey"`
	FlaggedHours float64   `json:"flaggedHours"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PayrollScan holds the optional payroll-sheet photo and its OCR text for
// one week. Neither is validated; both exist for display and best-effort
// suggestion scraping only.
type PayrollScan struct {
	WeekStartKey string    `json:"weekStartKey"`
	PhotoPath    string    `json:"photoPath,omitempty"`
	OCRText      string    `json:"ocrText"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("week record not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) GetFlag(ctx context.Context, userID, employeeNumber, weekStartKey string) (WeekFlag, error) {
	var f WeekFlag
	err := s.DB.QueryRow(ctx, `
    SELECT week_start_key, flagged_hours, updated_at
    FROM week_flags
    WHERE user_id = $1 AND employee_number = $2 AND week_start_key = $3
  `, userID, employeeNumber, weekStartKey).Scan(&f.WeekStartKey, &f.FlaggedHours, &f.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WeekFlag{}, ErrNotFound
	}
	return f, err
}

func (s *Store) UpsertFlag(ctx context.Context, userID, employeeNumber, weekStartKey string, flaggedHours float64) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO week_flags (user_id, employee_number, week_start_key, flagged_hours, updated_at)
    VALUES ($1, $2, $3, $4, now())
    ON CONFLICT (user_id, employee_number, week_start_key)
    DO UPDATE SET flagged_hours = EXCLUDED.flagged_hours, updated_at = now()
  `, userID, employeeNumber, weekStartKey, flaggedHours)
	return err
}

func (s *Store) GetScan(ctx context.Context, userID, employeeNumber, weekStartKey string) (PayrollScan, error) {
	var scan PayrollScan
	err := s.DB.QueryRow(ctx, `
    SELECT week_start_key, COALESCE(photo_path, ''), COALESCE(ocr_text, ''), updated_at
    FROM week_payroll_scans
    WHERE user_id = $1 AND employee_number = $2 AND week_start_key = $3
  `, userID, employeeNumber, weekStartKey).Scan(&scan.WeekStartKey, &scan.PhotoPath, &scan.OCRText, &scan.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return PayrollScan{}, ErrNotFound
	}
	return scan, err
}

func (s *Store) UpsertScan(ctx context.Context, userID, employeeNumber string, scan PayrollScan) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO week_payroll_scans (user_id, employee_number, week_start_key, photo_path, ocr_text, updated_at)
    VALUES ($1, $2, $3, NULLIF($4, ''), $5, now())
    ON CONFLICT (user_id, employee_number, week_start_key)
    DO UPDATE SET photo_path = NULLIF(EXCLUDED.photo_path, ''), ocr_text = EXCLUDED.ocr_text, updated_at = now()
  `, userID, employeeNumber, scan.WeekStartKey, scan.PhotoPath, scan.OCRText)
	return err
}
