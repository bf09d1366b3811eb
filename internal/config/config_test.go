package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LINGO_API_URL", "")
	t.Setenv("LINGO_API_TOKEN", "")
	t.Setenv("LINGO_TIMEOUT_SECS", "")

	cfg := Load()
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Empty(t, cfg.Token)
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LINGO_API_URL", "https://lingo.example.com/api/v1")
	t.Setenv("LINGO_API_TOKEN", "tok-123")
	t.Setenv("LINGO_TIMEOUT_SECS", "5")

	cfg := Load()
	assert.Equal(t, "https://lingo.example.com/api/v1", cfg.BaseURL)
	assert.Equal(t, "tok-123", cfg.Token)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoad_BadTimeoutIgnored(t *testing.T) {
	t.Setenv("LINGO_API_URL", "")
	t.Setenv("LINGO_TIMEOUT_SECS", "not-a-number")

	cfg := Load()
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
}
