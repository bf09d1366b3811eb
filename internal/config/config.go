package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultBaseURL is used when LINGO_API_URL is not set.
const DefaultBaseURL = "http://localhost:8080/api/v1"

// DefaultTimeout bounds each backend request.
const DefaultTimeout = 30 * time.Second

// Config holds the client-side settings for talking to the backend.
type Config struct {
	// BaseURL is the backend API root, without a trailing slash.
	BaseURL string

	// Token is the bearer token sent on every request. Empty means
	// unauthenticated (local development backends).
	Token string

	// Timeout bounds each HTTP request.
	Timeout time.Duration
}

// Load reads configuration from a .env file (if present) and the
// environment. Env vars win over .env entries, matching godotenv semantics.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		BaseURL: DefaultBaseURL,
		Token:   os.Getenv("LINGO_API_TOKEN"),
		Timeout: DefaultTimeout,
	}

	if v := os.Getenv("LINGO_API_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LINGO_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.Timeout = time.Duration(secs) * time.Second
		}
	}

	return cfg
}
