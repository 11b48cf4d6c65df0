package config_test

import (
	"moodmatch/backend/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test,")

	cfg, err := config.Load("does/not/exist.yml")
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, 2*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "session", cfg.Auth.CookieName)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.App.Origins())
	assert.False(t, cfg.Classifier.Enabled())
	assert.False(t, cfg.AI.Enabled())
}

func TestLoad_File(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  driver: sqlite\n  sqlitepath: /tmp/x.db\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/x.db", cfg.DB.SQLitePath)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := config.Load()
	assert.Error(t, err)
}

func TestIntensityConfidence(t *testing.T) {
	assert.InDelta(t, 33.33, config.IntensityConfidence(1), 1e-9)
	assert.InDelta(t, 66.66, config.IntensityConfidence(2), 1e-9)
	assert.InDelta(t, 99.99, config.IntensityConfidence(3), 1e-9)
}

func TestEnabledChecks(t *testing.T) {
	assert.True(t, config.ClassifierConfig{URL: "http://infer"}.Enabled())
	assert.True(t, config.AIConfig{Model: "m", APIKey: "k"}.Enabled())
	assert.True(t, config.AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}.Enabled())
	assert.False(t, config.AIConfig{Model: "m", AccessKey: "a"}.Enabled())
	assert.Contains(t, config.DBConfig{Host: "h", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}.DSN(), "dbname=n")
}
