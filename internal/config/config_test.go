package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsWithSQLite(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_DRIVER", DriverSQLite)

	cfg, err := Load([]string{"--config", t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "token", cfg.TelegramAPIToken)
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "techquest.db", cfg.DB.SQLitePath)
	assert.Equal(t, "UTC", cfg.Engine.Timezone)
	assert.Equal(t, 5, cfg.Engine.MaxRetries)
	assert.Equal(t, 48*time.Hour, cfg.Scheduler.SweepWindow)
	assert.False(t, cfg.Redis.Enabled())
	assert.Empty(t, cfg.Advisor.APIKey)
}

func TestLoad_MissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "")

	_, err := Load([]string{"--config", t.TempDir()})
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")

	_, err := Load([]string{"--config", t.TempDir()})
	require.ErrorIs(t, err, ErrMissingEnvironmentVariables)
}

func TestLoad_FileAndFlags(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`
env: dev
database:
  driver: postgres
engine:
  timezone: Europe/Berlin
redis:
  addr: localhost:6379
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), content, 0o600))

	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_URL", "postgres://localhost/techquest")
	t.Setenv("ADVISOR_API_KEY", "secret")

	cfg, err := Load([]string{"--config", dir, "--env", "production"})
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "Europe/Berlin", cfg.Engine.Timezone)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, "secret", cfg.Advisor.APIKey)

	dsn, err := cfg.DB.DSN()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/techquest", dsn)
}

func TestLoad_UnknownDriver(t *testing.T) {
	t.Setenv("TELEGRAM_API_TOKEN", "token")
	t.Setenv("DATABASE_DRIVER", "mysql")

	_, err := Load([]string{"--config", t.TempDir()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mysql")
}
