package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr             string
	DatabaseURL      string
	JWTSecret        string
	Environment      string
	SeedUserEmail    string
	SeedUserPassword string
	RunMigrations    bool
	RunSeed          bool
	MaxBodyBytes     int64
	UndoWindow       time.Duration
	BlobProvider     string
	GCSBucket        string
	SignedURLTTL     time.Duration
	StorageDir       string
	MetricsEnabled   bool
}

func Load() Config {
	return Config{
		Addr:             getEnv("APP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		Environment:      getEnv("APP_ENV", "development"),
		SeedUserEmail:    getEnv("SEED_USER_EMAIL", ""),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", ""),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:          getEnvBool("RUN_SEED", true),
		MaxBodyBytes:     getEnvInt64("MAX_BODY_BYTES", 10<<20),
		UndoWindow:       getEnvDuration("UNDO_WINDOW", 10*time.Second),
		BlobProvider:     strings.ToLower(getEnv("BLOB_PROVIDER", "local")),
		GCSBucket:        getEnv("GCS_BUCKET", ""),
		SignedURLTTL:     getEnvDuration("SIGNED_URL_TTL", time.Minute),
		StorageDir:       getEnv("STORAGE_DIR", "storage/proofs"),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", false),
	}
}

func (c Config) IsProd() bool {
	return strings.EqualFold(c.Environment, "production")
}

func (c Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BlobProvider != "local" && c.BlobProvider != "gcs" {
		return fmt.Errorf("BLOB_PROVIDER must be local or gcs, got %q", c.BlobProvider)
	}
	if c.BlobProvider == "gcs" && c.GCSBucket == "" {
		return fmt.Errorf("GCS_BUCKET is required when BLOB_PROVIDER=gcs")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt64(key string, fallback int64) int64 {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
