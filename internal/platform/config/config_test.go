package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flatrate")
	t.Setenv("JWT_SECRET", "secret")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "local", cfg.BlobProvider)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Equal(t, 10*time.Second, cfg.UndoWindow)
	assert.True(t, cfg.RunMigrations)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.IsProd())

	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flatrate")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_ADDR", ":9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("UNDO_WINDOW", "30s")
	t.Setenv("MAX_BODY_BYTES", "1048576")
	t.Setenv("RUN_MIGRATIONS", "false")
	t.Setenv("BLOB_PROVIDER", "GCS")
	t.Setenv("GCS_BUCKET", "flatrate-proofs")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.IsProd())
	assert.Equal(t, 30*time.Second, cfg.UndoWindow)
	assert.Equal(t, int64(1048576), cfg.MaxBodyBytes)
	assert.False(t, cfg.RunMigrations)
	assert.Equal(t, "gcs", cfg.BlobProvider)

	require.NoError(t, cfg.Validate())
}

func TestLoadIgnoresMalformedValues(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/flatrate")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("UNDO_WINDOW", "not-a-duration")
	t.Setenv("MAX_BODY_BYTES", "lots")
	t.Setenv("RUN_SEED", "maybe")

	cfg := Load()

	assert.Equal(t, 10*time.Second, cfg.UndoWindow)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.True(t, cfg.RunSeed)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing database url",
			cfg:     Config{JWTSecret: "s", BlobProvider: "local"},
			wantErr: "DATABASE_URL",
		},
		{
			name:    "missing jwt secret",
			cfg:     Config{DatabaseURL: "postgres://x", BlobProvider: "local"},
			wantErr: "JWT_SECRET",
		},
		{
			name:    "unknown blob provider",
			cfg:     Config{DatabaseURL: "postgres://x", JWTSecret: "s", BlobProvider: "s3"},
			wantErr: "BLOB_PROVIDER",
		},
		{
			name:    "gcs without bucket",
			cfg:     Config{DatabaseURL: "postgres://x", JWTSecret: "s", BlobProvider: "gcs"},
			wantErr: "GCS_BUCKET",
		},
		{
			name: "valid gcs",
			cfg:  Config{DatabaseURL: "postgres://x", JWTSecret: "s", BlobProvider: "gcs", GCSBucket: "b"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
