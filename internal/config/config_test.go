package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, "APP_NAME", "STORE_DRIVER", "DATABASE_URL", "DB_USER", "DB_PASSWORD", "DB_HOST",
		"DB_PORT", "DB_NAME", "DB_SSLMODE", "CACHE_ENABLED", "CACHE_TTL", "REQUEST_TIMEOUT_SECONDS",
		"SERVER_HOST", "SERVER_PORT", "RUN_MIGRATIONS", "MONITOR_INTERVAL")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "tasks-api", cfg.AppName)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "postgres://tasks_user:@localhost:5432/tasks_db?sslmode=disable", cfg.Database.URL)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 5*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, 10*time.Second, cfg.Monitor.Interval)
	assert.True(t, cfg.Migrations.Enabled)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.sqlite")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/t")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "7")
	t.Setenv("SERVER_PORT", "9000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x.sqlite", cfg.Store.SQLitePath)
	assert.Equal(t, "postgres://u:p@db:5432/t", cfg.Database.URL)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 7*time.Second, cfg.Context.RequestTimeout)
	assert.Equal(t, "9000", cfg.HTTP.Port)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mongo")
	assert.Panics(t, func() { MustLoad() })
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("REDIS_DB", "x")
	t.Setenv("CACHE_ENABLED", "maybe")
	t.Setenv("CACHE_TTL", "soon")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Redis.DB)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
}
