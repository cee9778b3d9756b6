package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
api:
  port: "9000"
  session_signing_key: test-key
festival:
  award_window_minutes: 45
rate_limit:
  rules:
    visit:
      limit: 5
      window_ms: 1000
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "9000", conf.API.Port)
	assert.Equal(t, "festival_session", conf.API.CookieName)
	assert.Equal(t, 45.0, conf.Festival.AwardWindowMinutes)
	assert.Equal(t, 10, conf.Festival.AwardPoints)
	assert.Equal(t, 200, conf.Festival.TokenRetries)
	assert.Equal(t, 3, conf.Festival.TrendingTopK)
	assert.Equal(t, "memory", conf.RateLimit.Backend)
	assert.Equal(t, 10000, conf.RateLimit.SweepThreshold)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FESTIVAL_AWARD_POINTS", "25")
	t.Setenv("API_PORT", "7000")

	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 25, conf.Festival.AwardPoints)
	assert.Equal(t, "7000", conf.API.Port)
}

func TestLoad_MissingSigningKey(t *testing.T) {
	_, err := Load(writeConfig(t, "api:\n  port: \"8080\"\n"))
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}

func TestRateLimitConfig_Rule(t *testing.T) {
	conf, err := Load(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, RateLimitRule{Limit: 5, WindowMs: 1000}, conf.RateLimit.Rule("visit"))
	assert.Equal(t, RateLimitRule{Limit: 30, WindowMs: 60000}, conf.RateLimit.Rule("unknown"))
}
