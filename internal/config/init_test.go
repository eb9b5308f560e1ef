package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_DSN", "user:pass@tcp(localhost:3306)/unifollow")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 5*time.Minute, cfg.FollowCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.VerifyDebounce)
	assert.Equal(t, time.Hour, cfg.AuditInterval)
	assert.Equal(t, 100, cfg.AuditBatchSize)
	assert.Equal(t, 0, cfg.RedisDB)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("FOLLOW_CACHE_TTL", "1m")
	t.Setenv("AUDIT_INTERVAL", "0s")
	t.Setenv("AUDIT_BATCH_SIZE", "25")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.FollowCacheTTL)
	assert.Equal(t, time.Duration(0), cfg.AuditInterval)
	assert.Equal(t, 25, cfg.AuditBatchSize)
	assert.Equal(t, 3, cfg.RedisDB)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("JWT_SECRET", "secret")

	_, err := Load()
	assert.EqualError(t, err, "DB_DSN is not set")
}

func TestLoadInvalidDuration(t *testing.T) {
	setRequired(t)
	t.Setenv("VERIFY_DEBOUNCE", "soon")

	_, err := Load()
	assert.Error(t, err)
}
