package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"APP_ENV", "HTTP_PORT", "STORE_BACKEND", "ENFORCE_ROLES", "ACCESS_TTL", "RATE_LIMIT_PER_MIN"} {
		t.Setenv(k, "")
	}
	cfg := FromEnv()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "5000", cfg.HTTPPort)
	assert.Equal(t, "mongo", cfg.StoreBackend)
	assert.False(t, cfg.EnforceRoles)
	assert.Equal(t, 12*time.Hour, cfg.AccessTTL)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
	assert.False(t, cfg.Production())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("ENFORCE_ROLES", "true")
	t.Setenv("ACCESS_TTL", "30m")
	t.Setenv("RATE_LIMIT_PER_MIN", "10")
	t.Setenv("SMTP_PORT", "2525")

	cfg := FromEnv()
	assert.True(t, cfg.Production())
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.True(t, cfg.EnforceRoles)
	assert.Equal(t, 30*time.Minute, cfg.AccessTTL)
	assert.Equal(t, 10, cfg.RateLimitPerMin)
	assert.Equal(t, 2525, cfg.SMTPPort)
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("ACCESS_TTL", "soon")
	t.Setenv("ENFORCE_ROLES", "maybe")
	t.Setenv("RATE_LIMIT_PER_MIN", "many")

	cfg := FromEnv()
	assert.Equal(t, 12*time.Hour, cfg.AccessTTL)
	assert.False(t, cfg.EnforceRoles)
	assert.Equal(t, 120, cfg.RateLimitPerMin)
}

func TestCloudinaryEnabled(t *testing.T) {
	cfg := App{CloudinaryCloudName: "demo", CloudinaryAPIKey: "k"}
	assert.False(t, cfg.CloudinaryEnabled())
	cfg.CloudinaryAPISecret = "s"
	assert.True(t, cfg.CloudinaryEnabled())
}
