package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")

	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, 10, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, 10<<20, cfg.Fetch.MaxBodyBytes)
	require.True(t, cfg.RateLimit.Enabled)
	require.Equal(t, float64(10), cfg.RateLimit.RequestsPerMinute)
	require.Equal(t, 3, cfg.RateLimit.Burst)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.False(t, cfg.Logging.Development)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
fetch:
  timeout_seconds: 5
ratelimit:
  enabled: false
logging:
  development: true
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)

	require.NoError(t, err)
	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, 5, cfg.Fetch.TimeoutSeconds)
	require.False(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Logging.Development)
	// Untouched sections keep their defaults.
	require.Equal(t, 10<<20, cfg.Fetch.MaxBodyBytes)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))

	require.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("EMAILSIFT_SERVER_PORT", "7070")

	cfg, err := Load("")

	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	base := func() Config {
		return Config{
			Server:    ServerConfig{Port: 8080},
			Fetch:     FetchConfig{TimeoutSeconds: 10, MaxBodyBytes: 1024},
			RateLimit: RateLimitConfig{Enabled: true, RequestsPerMinute: 10},
		}
	}

	cfg := base()
	cfg.Server.Port = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Fetch.TimeoutSeconds = 0
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.Fetch.MaxBodyBytes = -1
	require.Error(t, cfg.Validate())

	cfg = base()
	cfg.RateLimit.RequestsPerMinute = 0
	require.Error(t, cfg.Validate())

	require.NoError(t, base().Validate())
}

func TestDurationHelpers(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Fetch: FetchConfig{TimeoutSeconds: 10},
		RateLimit: RateLimitConfig{
			IdleTTLSeconds:       600,
			SweepIntervalSeconds: 300,
		},
	}

	require.Equal(t, 10*time.Second, cfg.FetchTimeout())
	require.Equal(t, 10*time.Minute, cfg.RateLimitIdleTTL())
	require.Equal(t, 5*time.Minute, cfg.RateLimitSweepInterval())
}
