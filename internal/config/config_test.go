package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allVars = []string{
	"META_DB_PATH", "LISTEN_ADDR", "LOG_LEVEL", "ENV", "PROPERTY_REGISTRY_PATH",
	"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "CORS_ALLOWED_ORIGINS",
	"IMPORT_PREVIEW_ROWS", "IMPORT_MAX_ROWS", "IMPORT_MAX_UPLOAD_BYTES",
	"SESSION_TTL", "SESSION_SWEEP_SCHEDULE",
	"ARCHIVE_BACKEND", "ARCHIVE_DIR", "ARCHIVE_PREFIX",
	"KEY_ID", "SECRET", "ENDPOINT", "REGION", "BUCKET",
	"GCS_KEY_FILE", "GCS_BUCKET",
	"AZURE_ACCOUNT_NAME", "AZURE_ACCOUNT_KEY", "AZURE_CONTAINER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allVars {
		t.Setenv(k, "")
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "moleculehub.sqlite", cfg.MetaDBPath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.RegistryPath)
	assert.InDelta(t, 100, cfg.RateLimitRPS, 0)
	assert.Equal(t, 200, cfg.RateLimitBurst)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)

	assert.Equal(t, 5, cfg.Import.PreviewRows)
	assert.Equal(t, 10000, cfg.Import.MaxRows)
	assert.Equal(t, int64(10<<20), cfg.Import.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.Import.SessionTTL)
	assert.Equal(t, "@every 15m", cfg.Import.SweepSchedule)

	assert.Equal(t, ArchiveNone, cfg.Archive.Backend)
	assert.Equal(t, "uploads", cfg.Archive.Dir)
	assert.Equal(t, "imports", cfg.Archive.Prefix)
	assert.Nil(t, cfg.Archive.S3KeyID)
	assert.False(t, cfg.Archive.HasS3Config())
	assert.NotEmpty(t, cfg.Warnings)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("META_DB_PATH", "/tmp/test.sqlite")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PROPERTY_REGISTRY_PATH", "/etc/molhub/props.yaml")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("IMPORT_PREVIEW_ROWS", "10")
	t.Setenv("IMPORT_MAX_ROWS", "500")
	t.Setenv("SESSION_TTL", "90m")
	t.Setenv("SESSION_SWEEP_SCHEDULE", "*/5 * * * *")
	t.Setenv("ARCHIVE_BACKEND", "Local")
	t.Setenv("ARCHIVE_DIR", "/var/lib/molhub")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/test.sqlite", cfg.MetaDBPath)
	assert.Equal(t, "/etc/molhub/props.yaml", cfg.RegistryPath)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.Import.PreviewRows)
	assert.Equal(t, 500, cfg.Import.MaxRows)
	assert.Equal(t, 90*time.Minute, cfg.Import.SessionTTL)
	assert.Equal(t, "*/5 * * * *", cfg.Import.SweepSchedule)
	assert.Equal(t, ArchiveLocal, cfg.Archive.Backend)
	assert.Equal(t, "/var/lib/molhub", cfg.Archive.Dir)
	assert.Empty(t, cfg.Warnings)
}

func TestLoadFromEnv_InvalidNumbersWarn(t *testing.T) {
	clearEnv(t)
	t.Setenv("IMPORT_MAX_ROWS", "lots")
	t.Setenv("SESSION_TTL", "-1h")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Import.MaxRows)
	assert.Equal(t, 24*time.Hour, cfg.Import.SessionTTL)
	assert.Contains(t, cfg.Warnings, `ignoring IMPORT_MAX_ROWS="lots": not a positive integer`)
	assert.Contains(t, cfg.Warnings, `ignoring SESSION_TTL="-1h": not a positive duration`)
}

func TestLoadFromEnv_S3Archive(t *testing.T) {
	clearEnv(t)
	t.Setenv("ARCHIVE_BACKEND", "s3")
	t.Setenv("KEY_ID", "testkey")
	t.Setenv("SECRET", "testsecret")
	t.Setenv("ENDPOINT", "s3.example.com")
	t.Setenv("REGION", "us-east-1")

	_, err := LoadFromEnv()
	require.Error(t, err, "bucket is missing")

	t.Setenv("BUCKET", "uploads")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.Archive.HasS3Config())
	require.NotNil(t, cfg.Archive.S3KeyID)
	assert.Equal(t, "testkey", *cfg.Archive.S3KeyID)
}

func TestArchiveConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     ArchiveConfig
		wantErr bool
	}{
		{"none", ArchiveConfig{Backend: ArchiveNone}, false},
		{"local", ArchiveConfig{Backend: ArchiveLocal}, false},
		{"gcs incomplete", ArchiveConfig{Backend: ArchiveGCS, GCSBucket: "b"}, true},
		{"gcs", ArchiveConfig{Backend: ArchiveGCS, GCSBucket: "b", GCSKeyFile: "/k.json"}, false},
		{"azure incomplete", ArchiveConfig{Backend: ArchiveAzure, AzureAccountName: "a"}, true},
		{"azure", ArchiveConfig{Backend: ArchiveAzure, AzureAccountName: "a", AzureAccountKey: "k", AzureContainer: "c"}, false},
		{"unknown", ArchiveConfig{Backend: "ftp"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadFromEnv_ProductionRejectsWildcardCORS(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "production")

	_, err := LoadFromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CORS wildcard")

	t.Setenv("CORS_ALLOWED_ORIGINS", "https://lab.example")
	cfg, err := LoadFromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSlogLevel(t *testing.T) {
	for in, want := range map[string]string{"debug": "DEBUG", "WARN": "WARN", "error": "ERROR", "": "INFO", "bogus": "INFO"} {
		cfg := &Config{LogLevel: in}
		assert.Equal(t, want, cfg.SlogLevel().String(), in)
	}
}

func TestLoadDotEnv_FileNotFound(t *testing.T) {
	require.NoError(t, LoadDotEnv("/nonexistent/.env"))
}

func TestLoadDotEnv_ParsesKeyValue(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("# comment\nMOLHUB_TEST_KEY=\"test value\"\n"), 0o600))

	require.NoError(t, LoadDotEnv(envFile))
	t.Cleanup(func() { _ = os.Unsetenv("MOLHUB_TEST_KEY") })

	assert.Equal(t, "test value", os.Getenv("MOLHUB_TEST_KEY"))
}

func TestLoadDotEnv_EnvVarPrecedence(t *testing.T) {
	t.Setenv("MOLHUB_PRECEDENCE_KEY", "from_env")

	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("MOLHUB_PRECEDENCE_KEY=from_file\n"), 0o600))

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "from_env", os.Getenv("MOLHUB_PRECEDENCE_KEY"))
}
