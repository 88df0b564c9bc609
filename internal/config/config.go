// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds process configuration read from the environment.
type Config struct {
	Port          string
	FrontendURL   string
	DBPath        string
	SiteConfig    string
	DataSource    string // overrides the chapter data file when set
	FetchTimeout  time.Duration
	PreferenceTTL time.Duration
	SweepInterval time.Duration
	Debug         bool
	Timeout       TimeoutConfig
	Retry         RetryConfig
}

// TimeoutConfig groups request-scoped timeouts.
type TimeoutConfig struct {
	HealthCheck   time.Duration
	StoreRequest  time.Duration
	ShutdownGrace time.Duration
}

// RetryConfig controls retries of SQLite writes that hit lock contention.
type RetryConfig struct {
	DatabaseMaxRetries     int
	DatabaseRetryBaseDelay time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		FrontendURL:   getEnv("FRONTEND_URL", ""),
		DBPath:        getEnv("DB_PATH", "./data/toppers.db"),
		SiteConfig:    getEnv("SITE_CONFIG", "site.yml"),
		DataSource:    getEnv("DATA_SOURCE", ""),
		FetchTimeout:  getEnvDuration("FETCH_TIMEOUT", 10*time.Second),
		PreferenceTTL: getEnvDuration("PREFERENCE_TTL", 90*24*time.Hour),
		SweepInterval: getEnvDuration("SWEEP_INTERVAL", time.Hour),
		Debug:         getEnvBool("DEBUG", false),
		Timeout: TimeoutConfig{
			HealthCheck:   getEnvDuration("HEALTH_CHECK_TIMEOUT", 5*time.Second),
			StoreRequest:  getEnvDuration("STORE_REQUEST_TIMEOUT", 5*time.Second),
			ShutdownGrace: getEnvDuration("SHUTDOWN_GRACE", 10*time.Second),
		},
		Retry: RetryConfig{
			DatabaseMaxRetries:     getEnvInt("DB_MAX_RETRIES", 3),
			DatabaseRetryBaseDelay: getEnvDuration("DB_RETRY_BASE_DELAY", 50*time.Millisecond),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be > 0")
	}
	if c.PreferenceTTL <= 0 {
		return fmt.Errorf("PREFERENCE_TTL must be > 0")
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.Retry.DatabaseMaxRetries <= 0 {
		return fmt.Errorf("DB_MAX_RETRIES must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// AllowedOrigins returns the origins permitted for CORS and websockets.
func (c *Config) AllowedOrigins() []string {
	if c.FrontendURL == "" {
		return []string{"*"}
	}
	var origins []string
	for _, o := range strings.Split(c.FrontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, strings.TrimRight(o, "/"))
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}
