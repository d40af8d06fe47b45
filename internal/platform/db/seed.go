package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"flatrate/internal/domain/auth"
	"flatrate/internal/platform/config"
)

// Seed provisions the initial technician account. It is idempotent: an
// existing user with the seed email is left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if cfg.SeedUserEmail == "" || cfg.SeedUserPassword == "" {
		return nil
	}

	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", cfg.SeedUserEmail).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(cfg.SeedUserPassword)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash)
    VALUES ($1, $2)
  `, cfg.SeedUserEmail, hash)
	return err
}
