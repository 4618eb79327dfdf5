// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// DefaultBackendURL is the hosted simulator backend used when no override
// is configured.
const DefaultBackendURL = "https://leadsim-backend.onrender.com"

// Config holds all application configuration.
type Config struct {
	Port            string
	FrontendURL     string
	DBPath          string
	BackendURL      string
	AdminAPIKey     string
	AccessToken     string // optional static token sent as X-Access-Token
	BackendTimeout  time.Duration
	SessionTTL      time.Duration
	ReportCompanyID string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:            getEnv("PORT", "8080"),
		FrontendURL:     getEnv("FRONTEND_URL", ""),
		DBPath:          getEnv("DB_PATH", "./data/leadsim.db"),
		BackendURL:      strings.TrimRight(getEnv("BACKEND_URL", DefaultBackendURL), "/"),
		AdminAPIKey:     getEnv("ADMIN_API_KEY", "dev-admin-key"),
		AccessToken:     getEnv("ACCESS_TOKEN", ""),
		BackendTimeout:  getEnvDuration("BACKEND_TIMEOUT", 30*time.Second),
		SessionTTL:      getEnvDuration("SESSION_TTL", 60*time.Minute),
		ReportCompanyID: getEnv("REPORT_COMPANY_ID", "LEADSIM_DEMO"),
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
	if c.BackendURL == "" {
		return fmt.Errorf("BACKEND_URL cannot be empty")
	}
	if c.BackendTimeout <= 0 {
		return fmt.Errorf("BACKEND_TIMEOUT must be > 0")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
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
