package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "referral")
	t.Setenv("DB_PASS", "secret")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "referral")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("REFRESH_TOKEN_TTL_DAYS", "30")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("ADMIN_EMAILS", "admin@helioref.fr, ops@helioref.fr")

	cfg := Load()

	assert.Equal(t, "test", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "referral", cfg.DBUser)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, 30, cfg.RefreshTTLDays)
	assert.Equal(t, 10, cfg.BcryptCost)
	require.Len(t, cfg.AdminEmails, 2)
	assert.Equal(t, []string{"admin@helioref.fr", "ops@helioref.fr"}, cfg.AdminEmails)
}

func TestAdminList(t *testing.T) {
	cfg := Config{AdminEmails: []string{"admin@helioref.fr"}}
	isAdmin := cfg.AdminList()

	assert.True(t, isAdmin("admin@helioref.fr"))
	assert.True(t, isAdmin("Admin@Helioref.FR"), "matching is case-insensitive")
	assert.True(t, isAdmin(" admin@helioref.fr "))
	assert.False(t, isAdmin("partner@helioref.fr"))
	assert.False(t, isAdmin(""))
}

func TestAdminListEmpty(t *testing.T) {
	isAdmin := Config{}.AdminList()
	assert.False(t, isAdmin("anyone@example.com"), "empty allow-list grants nobody")
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_TOKENS", "-3")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()

	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.GreaterOrEqual(t, cfg.TTL, 5*cfg.RefillInterval)
}
