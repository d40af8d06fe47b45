package classify

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrRuleNotFound = errors.New("prefix rule not found")

// Store holds per-user dealer prefix rules. The built-in tables remain the
// fallback when a user has none.
type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListRules(ctx context.Context, userID string) ([]PrefixRule, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, prefix, brand, COALESCE(vehicle_type, '')
    FROM dealer_prefix_rules
    WHERE user_id = $1
    ORDER BY length(prefix) DESC, prefix
  `, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []PrefixRule
	for rows.Next() {
		var r PrefixRule
		if err := rows.Scan(&r.ID, &r.Prefix, &r.Brand, &r.VehicleType); err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

func (s *Store) CreateRule(ctx context.Context, userID string, rule PrefixRule) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO dealer_prefix_rules (user_id, prefix, brand, vehicle_type)
    VALUES ($1, $2, $3, NULLIF($4, ''))
    RETURNING id
  `, userID, strings.ToUpper(strings.TrimSpace(rule.Prefix)), rule.Brand, rule.VehicleType).Scan(&id)
	return id, err
}

func (s *Store) DeleteRule(ctx context.Context, userID, id string) error {
	tag, err := s.DB.Exec(ctx, `
    DELETE FROM dealer_prefix_rules
    WHERE user_id = $1 AND id = $2
  `, userID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRuleNotFound
	}
	return nil
}
