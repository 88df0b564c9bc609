package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_PATH", "FETCH_TIMEOUT", "PREFERENCE_TTL", "DB_MAX_RETRIES", "FRONTEND_URL"} {
		if v, ok := os.LookupEnv(key); ok {
			t.Setenv(key, v)
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("unset %s: %v", key, err)
			}
		}
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("expected port 8080, got %q", cfg.Port)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("expected fetch timeout 10s, got %v", cfg.FetchTimeout)
	}
	if cfg.Retry.DatabaseMaxRetries != 3 {
		t.Errorf("expected 3 retries, got %d", cfg.Retry.DatabaseMaxRetries)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development mode without FRONTEND_URL")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("FETCH_TIMEOUT", "3s")
	t.Setenv("DEBUG", "yes")
	t.Setenv("DB_MAX_RETRIES", "not-a-number")
	t.Setenv("FRONTEND_URL", "https://sslctoppers.com/, https://www.sslctoppers.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9090" || cfg.FetchTimeout != 3*time.Second || !cfg.Debug {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Retry.DatabaseMaxRetries != 3 {
		t.Errorf("expected fallback for bad int, got %d", cfg.Retry.DatabaseMaxRetries)
	}
	if cfg.IsDevelopment() {
		t.Error("expected production mode")
	}
	origins := cfg.AllowedOrigins()
	if len(origins) != 2 || origins[0] != "https://sslctoppers.com" {
		t.Errorf("unexpected origins %v", origins)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty db path", func(c *Config) { c.DBPath = "" }},
		{"zero fetch timeout", func(c *Config) { c.FetchTimeout = 0 }},
		{"zero ttl", func(c *Config) { c.PreferenceTTL = 0 }},
		{"zero retries", func(c *Config) { c.Retry.DatabaseMaxRetries = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{
				Port: "8080", DBPath: "x.db", FetchTimeout: time.Second,
				PreferenceTTL: time.Hour, SweepInterval: time.Hour,
				Retry: RetryConfig{DatabaseMaxRetries: 1},
			}
			if err := c.Validate(); err != nil {
				t.Fatalf("baseline invalid: %v", err)
			}
			tt.mutate(c)
			if err := c.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
