package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cx-tal-miterani/hotel-reservation-system/internal/rating"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"API_PORT", "STORE", "DATABASE_URL", "READ_DATABASE_URL", "TEMPORAL_HOST",
		"TEMPORAL_TASK_QUEUE", "ANALYTICS_ENABLED", "LOCK_BACKEND", "REDIS_ADDR",
		"REDIS_PASSWORD", "LOCK_TTL", "RATING_MIN_MARK", "RATING_MAX_MARK", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, StorePostgres, cfg.Store)
	assert.Equal(t, "localhost:7233", cfg.TemporalHost)
	assert.Equal(t, "hotel-analytics-queue", cfg.TemporalQueue)
	assert.False(t, cfg.AnalyticsEnabled)
	assert.Equal(t, LockLocal, cfg.LockBackend)
	assert.Equal(t, 10*time.Second, cfg.LockTTL)
	assert.Equal(t, rating.DefaultBounds, cfg.Rating)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("API_PORT", "9090")
	t.Setenv("STORE", "memory")
	t.Setenv("ANALYTICS_ENABLED", "true")
	t.Setenv("LOCK_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("LOCK_TTL", "3s")
	t.Setenv("RATING_MIN_MARK", "0")
	t.Setenv("RATING_MAX_MARK", "10")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr())
	assert.Equal(t, StoreMemory, cfg.Store)
	assert.True(t, cfg.AnalyticsEnabled)
	assert.Equal(t, LockRedis, cfg.LockBackend)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 3*time.Second, cfg.LockTTL)
	assert.Equal(t, rating.Bounds{Min: 0, Max: 10}, cfg.Rating)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("ANALYTICS_ENABLED", "maybe")
	t.Setenv("LOCK_TTL", "soon")
	t.Setenv("RATING_MAX_MARK", "five")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ANALYTICS_ENABLED")
	assert.Contains(t, err.Error(), "LOCK_TTL")
	assert.Contains(t, err.Error(), "RATING_MAX_MARK")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:        "8080",
			Store:       StorePostgres,
			DatabaseURL: "postgres://localhost/hotel",
			LockBackend: LockLocal,
			LockTTL:     time.Second,
			Rating:      rating.DefaultBounds,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"unknown store", func(c *Config) { c.Store = "mongo" }, `unknown store "mongo"`},
		{"postgres without url", func(c *Config) { c.DatabaseURL = "" }, "DATABASE_URL"},
		{"replica with memory store", func(c *Config) { c.Store = StoreMemory; c.ReadDatabaseURL = "postgres://replica" }, "READ_DATABASE_URL"},
		{"unknown lock", func(c *Config) { c.LockBackend = "etcd" }, `unknown lock backend "etcd"`},
		{"redis without addr", func(c *Config) { c.LockBackend = LockRedis }, "REDIS_ADDR"},
		{"non-positive ttl", func(c *Config) { c.LockTTL = 0 }, "lock ttl"},
		{"analytics without temporal", func(c *Config) { c.AnalyticsEnabled = true }, "TEMPORAL_HOST"},
		{"empty rating bounds", func(c *Config) { c.Rating = rating.Bounds{Min: 5, Max: 1} }, "rating bounds"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
