package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 720*time.Minute, cfg.Auth.TokenTTL())
	require.Equal(t, RevocationBackendRedis, cfg.Auth.RevocationBackend)
	require.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	require.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
}

func TestLoad_ShortSecretRejectedOutsideDevelopment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_UnknownRevocationBackend(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_REVOCATION_BACKEND", "memcached")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_TOKEN_TTL_MINUTES", "15")
	t.Setenv("AUTH_REVOCATION_BACKEND", "MEMORY")
	t.Setenv("AUTH_LOGIN_RATE_PER_SECOND", "0.5")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 15*time.Minute, cfg.Auth.TokenTTL())
	require.Equal(t, RevocationBackendMemory, cfg.Auth.RevocationBackend)
	require.InDelta(t, 0.5, cfg.Auth.LoginRateLimitPerSec, 1e-9)
	require.Zero(t, cfg.App.RequestTimeout())
}
