package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeEnvFile(t, `
APP_PORT=9090
JWT_SECRET=file-secret
JWT_ACCESS_EXPIRY=1h
SCHEDULE_DAY_START=08:00
SCHEDULE_SLOT_LENGTH=20m
BOOKING_LOCK_ENABLED=false
`)

	cfg, err := loadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "file-secret", cfg.JWT.Secret)
	assert.Equal(t, time.Hour, cfg.JWT.AccessExpiry)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiry)
	assert.Equal(t, "08:00", cfg.Schedule.DayStart)
	assert.Equal(t, "17:00", cfg.Schedule.DayEnd)
	assert.Equal(t, 20*time.Minute, cfg.Schedule.SlotLength)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.LeadTime)
	assert.False(t, cfg.Booking.LockEnabled)
}

func TestLoadConfig_MissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "env-secret", cfg.JWT.Secret)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "12:00", cfg.Schedule.LunchStart)
	assert.Equal(t, "13:00", cfg.Schedule.LunchEnd)
	assert.True(t, cfg.DB.AutoMigrate)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoadConfig_RequiresSecret(t *testing.T) {
	path := writeEnvFile(t, "APP_PORT=8080\n")

	_, err := loadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfig_InvalidDurationFallsBack(t *testing.T) {
	path := writeEnvFile(t, "JWT_SECRET=s\nSCHEDULE_LEAD_TIME=soon\n")

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, cfg.Schedule.LeadTime)
}
