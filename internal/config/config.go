package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Environment     string
	SupabaseURL     string
	SupabaseDBURL   string
	SupabaseJWKSURL string // Constructed from SupabaseURL + /auth/v1/.well-known/jwks.json
	CORSOrigins     string
	TablePrefix     string
	DBMaxConns      int32
	DBMinConns      int32
	// Storage backends
	MetadataBackend string // "postgres" or "memory"
	ObjectBackend   string // "s3" or "memory"
	S3              S3Config
	SignedURLTTL    time.Duration
	MaxUploadBytes  int64
	// Create missing tables at startup
	AutoMigrate bool
	// Access policy (elevated roles, hidden roots, taxonomy)
	PolicyFile string
	// Logging
	LogFile       string
	LogMaxSizeMB  int
	LogMaxBackups int
	// Debug flags
	Debug bool
}

// S3Config holds object storage settings
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	KeyPrefix       string
	MaxRetries      int
}

func Load() *Config {
	env := getEnv("ENVIRONMENT", "dev")
	tablePrefix := getTablePrefix(env)
	supabaseURL := strings.TrimRight(getEnv("SUPABASE_URL", ""), "/")

	// Construct JWKS URL from Supabase URL
	jwksURL := supabaseURL + "/auth/v1/.well-known/jwks.json"

	return &Config{
		Port:            getEnv("PORT", "8080"),
		Environment:     env,
		SupabaseURL:     supabaseURL,
		SupabaseDBURL:   getEnv("SUPABASE_DB_URL", ""),
		SupabaseJWKSURL: jwksURL,
		CORSOrigins:     getEnv("CORS_ORIGINS", "http://localhost:3000"),
		TablePrefix:     tablePrefix,
		DBMaxConns:      int32(getInt64("DB_MAX_CONNS", 25)),
		DBMinConns:      int32(getInt64("DB_MIN_CONNS", 2)),
		MetadataBackend: getEnv("METADATA_BACKEND", "postgres"),
		ObjectBackend:   getEnv("OBJECT_BACKEND", "s3"),
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			KeyPrefix:       getEnv("S3_KEY_PREFIX", tablePrefix+"docstore"),
			MaxRetries:      int(getInt64("S3_MAX_RETRIES", 3)),
		},
		SignedURLTTL:   getDuration("SIGNED_URL_TTL", DefaultSignedURLTTL),
		MaxUploadBytes: getInt64("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes),
		AutoMigrate:    getEnv("AUTO_MIGRATE", "false") == "true",
		PolicyFile:     getEnv("POLICY_FILE", ""),
		LogFile:        getEnv("LOG_FILE", ""),
		LogMaxSizeMB:   int(getInt64("LOG_MAX_SIZE_MB", 50)),
		LogMaxBackups:  int(getInt64("LOG_MAX_BACKUPS", 5)),
		// Debug flags - default to true in dev/test, false in production
		Debug: getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true" // Enable DEBUG in dev/test by default
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	// Allow manual override via TABLE_PREFIX env var
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultValue
}
