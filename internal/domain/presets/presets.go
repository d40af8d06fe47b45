package presets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TypePreset remembers the last hours and rate used with a work-type name so
// the entry form can pre-fill them. Names are unique per owner,
// case-insensitively; every save is last-write-wins.
type TypePreset struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	EmployeeNumber string    `json:"-"`
	Name           string    `json:"name"`
	LastHours      float64   `json:"lastHours"`
	LastRate       float64   `json:"lastRate"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

var ErrNotFound = errors.New("type preset not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) List(ctx context.Context, userID, employeeNumber string) ([]TypePreset, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, last_hours, last_rate, updated_at
    FROM type_presets
    WHERE user_id = $1 AND employee_number = $2
    ORDER BY name
  `, userID, employeeNumber)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []TypePreset
	for rows.Next() {
		p := TypePreset{UserID: userID, EmployeeNumber: employeeNumber}
		if err := rows.Scan(&p.ID, &p.Name, &p.LastHours, &p.LastRate, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// FindByName resolves a preset by its case-insensitive name key.
func (s *Store) FindByName(ctx context.Context, userID, employeeNumber, name string) (TypePreset, error) {
	p := TypePreset{UserID: userID, EmployeeNumber: employeeNumber}
	err := s.DB.QueryRow(ctx, `
    SELECT id, name, last_hours, last_rate, updated_at
    FROM type_presets
    WHERE user_id = $1 AND employee_number = $2 AND name_key = $3
  `, userID, employeeNumber, nameKey(name)).Scan(&p.ID, &p.Name, &p.LastHours, &p.LastRate, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return TypePreset{}, ErrNotFound
	}
	return p, err
}

// Learn creates the preset on first use of a name and overwrites its
// defaults on every reuse. The stored display name keeps the first spelling.
func (s *Store) Learn(ctx context.Context, userID, employeeNumber, name string, hours, rate float64) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	_, err := s.DB.Exec(ctx, `
    INSERT INTO type_presets (user_id, employee_number, name, name_key, last_hours, last_rate, updated_at)
    VALUES ($1, $2, $3, $4, $5, $6, now())
    ON CONFLICT (user_id, employee_number, name_key)
    DO UPDATE SET last_hours = EXCLUDED.last_hours, last_rate = EXCLUDED.last_rate, updated_at = now()
  `, userID, employeeNumber, trimmed, nameKey(trimmed), hours, rate)
	return err
}

func (s *Store) Delete(ctx context.Context, userID, employeeNumber, id string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM type_presets
    WHERE user_id = $1 AND employee_number = $2 AND id = $3
  `, userID, employeeNumber, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
