package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/staffhub-backend/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "staffhub", cfg.Database.DBName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, 5, cfg.Auth.OTPMaxAttempts)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("JWT_EXPIRY", "30m")
	t.Setenv("AUTH_OTP_MAX_ATTEMPTS", "3")
	t.Setenv("LOG_COMPRESS", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 30*time.Minute, cfg.JWT.Expiry)
	assert.Equal(t, 3, cfg.Auth.OTPMaxAttempts)
	assert.False(t, cfg.Logging.Compress)
}

func TestLoadConfigFileOverlay(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "staffhub.yaml")
	body := []byte("database:\n  host: compose-db\n  dbname: staffhub_dev\nlogging:\n  level: debug\n")
	require.NoError(t, os.WriteFile(path, body, 0o600))

	t.Setenv("STAFFHUB_CONFIG_FILE", path)
	t.Setenv("POSTGRES_HOST", "ignored-by-overlay")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "compose-db", cfg.Database.Host)
	assert.Equal(t, "staffhub_dev", cfg.Database.DBName)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Sections the file does not mention keep their env/default values.
	assert.Equal(t, "8080", cfg.Server.Port)
}

func TestLoadBadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database: ["), 0o600))

	t.Setenv("STAFFHUB_CONFIG_FILE", path)

	_, err := config.Load()
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	c := config.DatabaseConfig{
		Host: "h", Port: "5432", User: "u", Password: "p", DBName: "d", SSLMode: "disable",
	}
	assert.Equal(t, "host=h port=5432 user=u password=p dbname=d sslmode=disable", c.ConnectionString())
}
