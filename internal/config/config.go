// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Archive backends.
const (
	ArchiveNone  = "none"
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
	ArchiveGCS   = "gcs"
	ArchiveAzure = "azure"
)

// ImportConfig tunes upload handling and session lifetime.
type ImportConfig struct {
	PreviewRows    int           // sample rows returned with a session (default 5)
	MaxRows        int           // data rows accepted per upload (default 10000)
	MaxUploadBytes int64         // request body cap (default 10 MiB)
	SessionTTL     time.Duration // pending sessions idle longer than this are swept (default 24h)
	SweepSchedule  string        // cron spec for the sweeper (default "@every 15m")
}

// ArchiveConfig selects where raw uploads are kept.
type ArchiveConfig struct {
	Backend string // none, local, s3, gcs, azure
	Dir     string // local backend root (default "uploads")
	Prefix  string // object key prefix (default "imports")

	// S3 fields are nil when not configured.
	S3KeyID    *string
	S3Secret   *string
	S3Endpoint *string
	S3Region   *string
	S3Bucket   *string

	GCSKeyFile string
	GCSBucket  string

	AzureAccountName string
	AzureAccountKey  string
	AzureContainer   string
}

// HasS3Config returns true if all required S3 fields are set.
func (a *ArchiveConfig) HasS3Config() bool {
	return a.S3KeyID != nil && a.S3Secret != nil &&
		a.S3Endpoint != nil && a.S3Region != nil && a.S3Bucket != nil
}

// Validate checks that the selected backend has what it needs.
func (a *ArchiveConfig) Validate() error {
	switch a.Backend {
	case ArchiveNone, ArchiveLocal:
		return nil
	case ArchiveS3:
		if !a.HasS3Config() {
			return fmt.Errorf("ARCHIVE_BACKEND=s3 requires KEY_ID, SECRET, ENDPOINT, REGION and BUCKET")
		}
	case ArchiveGCS:
		if a.GCSKeyFile == "" || a.GCSBucket == "" {
			return fmt.Errorf("ARCHIVE_BACKEND=gcs requires GCS_KEY_FILE and GCS_BUCKET")
		}
	case ArchiveAzure:
		if a.AzureAccountName == "" || a.AzureAccountKey == "" || a.AzureContainer == "" {
			return fmt.Errorf("ARCHIVE_BACKEND=azure requires AZURE_ACCOUNT_NAME, AZURE_ACCOUNT_KEY and AZURE_CONTAINER")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_BACKEND %q (want none, local, s3, gcs or azure)", a.Backend)
	}
	return nil
}

// Config holds the configuration for the HTTP API and the import pipeline.
type Config struct {
	MetaDBPath   string // path to the SQLite metastore
	ListenAddr   string // HTTP listen address (default ":8080")
	LogLevel     string // log level: debug, info, warn, error (default "info")
	Env          string // environment: "development" (default) or "production"
	RegistryPath string // YAML property registry; empty uses the built-in one

	// Rate limiting
	RateLimitRPS   float64 // sustained requests per second (default 100)
	RateLimitBurst int     // burst capacity (default 200)

	// CORS
	CORSAllowedOrigins []string // allowed origins for CORS (default: ["*"])

	Import  ImportConfig
	Archive ArchiveConfig

	// Warnings collects non-fatal warnings generated during config loading.
	// These are logged by the caller after the logger is initialised.
	Warnings []string
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsProduction returns true when the server is running in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		MetaDBPath:   os.Getenv("META_DB_PATH"),
		ListenAddr:   os.Getenv("LISTEN_ADDR"),
		LogLevel:     os.Getenv("LOG_LEVEL"),
		Env:          os.Getenv("ENV"),
		RegistryPath: os.Getenv("PROPERTY_REGISTRY_PATH"),
		Import: ImportConfig{
			SweepSchedule: os.Getenv("SESSION_SWEEP_SCHEDULE"),
		},
		Archive: ArchiveConfig{
			Backend:          strings.ToLower(strings.TrimSpace(os.Getenv("ARCHIVE_BACKEND"))),
			Dir:              os.Getenv("ARCHIVE_DIR"),
			Prefix:           os.Getenv("ARCHIVE_PREFIX"),
			GCSKeyFile:       os.Getenv("GCS_KEY_FILE"),
			GCSBucket:        os.Getenv("GCS_BUCKET"),
			AzureAccountName: os.Getenv("AZURE_ACCOUNT_NAME"),
			AzureAccountKey:  os.Getenv("AZURE_ACCOUNT_KEY"),
			AzureContainer:   os.Getenv("AZURE_CONTAINER"),
		},
	}

	// Rate limiting
	if v := os.Getenv("RATE_LIMIT_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateLimitRPS = f
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring RATE_LIMIT_RPS=%q: not a number", v))
		}
	}
	cfg.RateLimitBurst = intEnv(cfg, "RATE_LIMIT_BURST")

	// Import pipeline
	cfg.Import.PreviewRows = intEnv(cfg, "IMPORT_PREVIEW_ROWS")
	cfg.Import.MaxRows = intEnv(cfg, "IMPORT_MAX_ROWS")
	cfg.Import.MaxUploadBytes = int64(intEnv(cfg, "IMPORT_MAX_UPLOAD_BYTES"))
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.Import.SessionTTL = d
		} else {
			cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring SESSION_TTL=%q: not a positive duration", v))
		}
	}

	// S3 fields are only set if present
	if v := os.Getenv("KEY_ID"); v != "" {
		cfg.Archive.S3KeyID = &v
	}
	if v := os.Getenv("SECRET"); v != "" {
		cfg.Archive.S3Secret = &v
	}
	if v := os.Getenv("ENDPOINT"); v != "" {
		cfg.Archive.S3Endpoint = &v
	}
	if v := os.Getenv("REGION"); v != "" {
		cfg.Archive.S3Region = &v
	}
	if v := os.Getenv("BUCKET"); v != "" {
		cfg.Archive.S3Bucket = &v
	}

	// CORS
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		origins := strings.Split(v, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		cfg.CORSAllowedOrigins = compactNonEmpty(origins)
	}

	// Defaults
	if cfg.MetaDBPath == "" {
		cfg.MetaDBPath = "moleculehub.sqlite"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.RateLimitRPS == 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst == 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}
	if cfg.Import.PreviewRows == 0 {
		cfg.Import.PreviewRows = 5
	}
	if cfg.Import.MaxRows == 0 {
		cfg.Import.MaxRows = 10000
	}
	if cfg.Import.MaxUploadBytes == 0 {
		cfg.Import.MaxUploadBytes = 10 << 20
	}
	if cfg.Import.SessionTTL == 0 {
		cfg.Import.SessionTTL = 24 * time.Hour
	}
	if cfg.Import.SweepSchedule == "" {
		cfg.Import.SweepSchedule = "@every 15m"
	}
	if cfg.Archive.Backend == "" {
		cfg.Archive.Backend = ArchiveNone
	}
	if cfg.Archive.Dir == "" {
		cfg.Archive.Dir = "uploads"
	}
	if cfg.Archive.Prefix == "" {
		cfg.Archive.Prefix = "imports"
	}

	if err := cfg.Archive.Validate(); err != nil {
		return nil, err
	}
	if cfg.Archive.Backend == ArchiveNone {
		cfg.Warnings = append(cfg.Warnings, "ARCHIVE_BACKEND not set, raw uploads will not be archived")
	}

	// Production mode: insecure defaults are fatal errors.
	if cfg.IsProduction() {
		if len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*" {
			return nil, fmt.Errorf("CORS wildcard (*) is not allowed in production (ENV=production)")
		}
	}

	return cfg, nil
}

// intEnv parses a positive integer variable. Missing or invalid values yield
// 0 so the caller's default applies; invalid ones also add a warning.
func intEnv(cfg *Config, key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		cfg.Warnings = append(cfg.Warnings, fmt.Sprintf("ignoring %s=%q: not a positive integer", key, v))
		return 0
	}
	return n
}

func compactNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

// LoadDotEnv reads a .env file and sets any variables not already in the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}
