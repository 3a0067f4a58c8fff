package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("APP_ENV", "development")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("S3_REGION", "us-east-1")
	t.Setenv("S3_BUCKET", "study-photos")
	t.Setenv("S3_ACCESS_KEY", "key")
	t.Setenv("S3_SECRET_KEY", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg := Load()
	assert.Equal(t, "studyportal", cfg.AppName)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 2*time.Second, cfg.AutoSaveDebounce)
	assert.Equal(t, time.Hour, cfg.S3PresignExpiry)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_ENV", "production")
	t.Setenv("POLL_INTERVAL", "10s")
	t.Setenv("AUTOSAVE_DEBOUNCE", "500ms")
	t.Setenv("DB_DRIVER", "pgx")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.AutoSaveDebounce)
	assert.Equal(t, "pgx", cfg.DBDriver)
	assert.True(t, cfg.IsProduction())
}

func TestEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "every so often")
	assert.Equal(t, 30*time.Second, envDuration("POLL_INTERVAL", 30*time.Second))
}
