package api

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	searchapp "github.com/Apurer/dog-finder/internal/domains/search/application"
	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
)

// Config carries environment-driven settings for the API process.
type Config struct {
	Port                       string
	FetchAPIBaseURL            string
	FetchAPITimeout            time.Duration
	PostgresDSN                string
	SessionTTL                 time.Duration
	SessionCookieSecure        bool
	SessionPurgeIntervalMinute int
	SearchPageSize             int
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:                envDefault("PORT", "8080"),
		FetchAPIBaseURL:     envDefault("FETCH_API_BASE_URL", fetchclient.DefaultBaseURL),
		FetchAPITimeout:     10 * time.Second,
		PostgresDSN:         strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		SessionTTL:          sessionapp.DefaultSessionTTL,
		SessionCookieSecure: isTruthy(envDefault("SESSION_COOKIE_SECURE", "true")),
		SearchPageSize:      searchapp.DefaultPageSize,
	}
	if u, err := url.Parse(cfg.FetchAPIBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return Config{}, fmt.Errorf("FETCH_API_BASE_URL must be an absolute URL")
	}
	seconds, err := positiveInt("FETCH_API_TIMEOUT_SECONDS")
	if err != nil {
		return Config{}, err
	}
	if seconds > 0 {
		cfg.FetchAPITimeout = time.Duration(seconds) * time.Second
	}
	hours, err := positiveInt("SESSION_TTL_HOURS")
	if err != nil {
		return Config{}, err
	}
	if hours > 0 {
		cfg.SessionTTL = time.Duration(hours) * time.Hour
	}
	size, err := positiveInt("SEARCH_PAGE_SIZE")
	if err != nil {
		return Config{}, err
	}
	if size > 0 {
		cfg.SearchPageSize = size
	}
	if cfg.SessionPurgeIntervalMinute, err = positiveInt("SESSION_PURGE_INTERVAL_MINUTES"); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// positiveInt returns 0 when key is unset.
func positiveInt(key string) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
