package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Authorization", cfg.Auth.HeaderName)
	assert.Equal(t, "Bearer ", cfg.Auth.HeaderPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "userId", cfg.Auth.LoginSubjectHeader)
	assert.Equal(t, "token", cfg.Auth.LoginTokenHeader)
	assert.Equal(t, 24*time.Hour, cfg.Auth.EmailConfirmTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_TOKEN_SECRET", "prod-secret")
	t.Setenv("AUTH_TOKEN_HEADER_NAME", "X-Auth")
	t.Setenv("AUTH_TOKEN_HEADER_PREFIX", "Token ")
	t.Setenv("AUTH_TOKEN_TTL", "15m")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "X-Auth", cfg.Auth.HeaderName)
	assert.Equal(t, "Token ", cfg.Auth.HeaderPrefix)
	assert.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL)
	assert.Equal(t, 2.5, cfg.RateLimit.RPS)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	assert.ErrorContains(t, err, "invalid REDIS_DB")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:  AppConfig{Env: "production"},
			Auth: AuthConfig{HeaderName: "Authorization", TokenSecret: "s", TokenTTL: time.Hour},
		}
	}

	assert.NoError(t, valid().Validate())

	cfg := valid()
	cfg.Auth.TokenSecret = "dev-secret"
	assert.Error(t, cfg.Validate(), "dev secret outside development")

	cfg = valid()
	cfg.Auth.HeaderName = " "
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.Auth.TokenTTL = 0
	assert.Error(t, cfg.Validate())

	cfg = valid()
	cfg.RateLimit = RateLimitConfig{Enabled: true, RPS: 0, Burst: 5}
	assert.Error(t, cfg.Validate(), "enabled limiter with zero rate")

	cfg = valid()
	cfg.RateLimit = RateLimitConfig{Enabled: true, RPS: 1, Burst: 0}
	assert.Error(t, cfg.Validate(), "enabled limiter with zero burst")

	cfg = valid()
	cfg.RateLimit = RateLimitConfig{Enabled: false, RPS: 0}
	assert.NoError(t, cfg.Validate(), "disabled limiter ignores its rate")
}

func TestLoad_RejectsNonPositiveRate(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "0")

	_, err := Load()
	assert.ErrorContains(t, err, "RATE_LIMIT_RPS")
}
