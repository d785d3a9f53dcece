package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	// Remote banking API
	NessieBaseURL    string
	NessieAPIKey     string
	NessieCustomerID string
	HTTPTimeout      time.Duration

	// Override checking account: force-included because the sandbox seed
	// data is known to omit it from the customer's account list.
	OverrideAccountID    string
	OverrideAccountAlias string

	// Category override store
	OverridesDBPath string

	// Assistant
	GeminiModel string

	// Logging
	LogLevel string
}

func Load() *Config {
	return &Config{
		NessieBaseURL:    getEnv("NESSIE_BASE_URL", "https://api.nessieisreal.com"),
		NessieAPIKey:     getEnv("NESSIE_API_KEY", ""),
		NessieCustomerID: getEnv("NESSIE_CUSTOMER_ID", ""),
		HTTPTimeout:      getEnvDuration("HTTP_TIMEOUT", 15*time.Second),

		OverrideAccountID:    getEnv("NESSIE_CHECKING_ACCOUNT_ID", ""),
		OverrideAccountAlias: getEnv("NESSIE_CHECKING_ACCOUNT_ALIAS", "Checking"),

		OverridesDBPath: getEnv("OVERRIDES_DB_PATH", "./data/fintrack.db"),

		GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate checks the configuration and returns a combined error listing
// every problem found.
func (c *Config) Validate() error {
	var errs []string

	if parsed, err := url.Parse(c.NessieBaseURL); err != nil {
		errs = append(errs, fmt.Sprintf("invalid base URL %q: %v", c.NessieBaseURL, err))
	} else if parsed.Scheme != "http" && parsed.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("invalid base URL scheme %q: must be http or https", parsed.Scheme))
	}

	if c.NessieAPIKey == "" {
		errs = append(errs, "NESSIE_API_KEY is required")
	}
	if c.NessieCustomerID == "" {
		errs = append(errs, "NESSIE_CUSTOMER_ID is required")
	}

	if c.HTTPTimeout < time.Second {
		errs = append(errs, fmt.Sprintf("invalid HTTP timeout %v: must be at least 1 second", c.HTTPTimeout))
	} else if c.HTTPTimeout > 5*time.Minute {
		errs = append(errs, fmt.Sprintf("invalid HTTP timeout %v: must be at most 5 minutes", c.HTTPTimeout))
	}

	if c.OverrideAccountID != "" && strings.TrimSpace(c.OverrideAccountAlias) == "" {
		errs = append(errs, "override account alias cannot be empty when an override account id is set")
	}

	if c.OverridesDBPath == "" {
		errs = append(errs, "overrides database path cannot be empty")
	} else if dir := filepath.Dir(c.OverridesDBPath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create overrides database directory %q: %v", dir, err))
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
