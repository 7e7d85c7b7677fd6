// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Revalidation bounds, in seconds.
const (
	MinRevalidate     = 60
	MaxRevalidate     = 86400
	DefaultRevalidate = 300
)

// Config holds all runtime configuration for the board service.
type Config struct {
	Port        string
	GRPCPort    string
	Environment string // "development" switches to console logging
	LogLevel    string

	AirtableToken  string
	AirtableBaseID string
	AirtableTable  string

	RedisURL    string // optional: snapshot cache and refresh events
	DatabaseURL string // optional: Postgres snapshot mirror

	Revalidate  time.Duration // snapshot staleness window and refresh interval
	SiteConfig  string        // path to the YAML site settings
	CORSOrigins []string
}

// Load reads environment variables (and a .env file when present) and
// returns a validated Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	token := os.Getenv("AIRTABLE_ACCESS_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("AIRTABLE_ACCESS_TOKEN is required")
	}

	baseID := os.Getenv("AIRTABLE_BASE_ID")
	if baseID == "" {
		return nil, fmt.Errorf("AIRTABLE_BASE_ID is required")
	}

	revalidate := DefaultRevalidate
	if s := os.Getenv("REVALIDATE_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("REVALIDATE_SECONDS must be an integer, got %q", s)
		}
		revalidate = ClampRevalidate(v)
	}

	return &Config{
		Port:           getenv("BOARD_PORT", "8080"),
		GRPCPort:       getenv("GRPC_PORT", "9090"),
		Environment:    getenv("ENVIRONMENT", "production"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		AirtableToken:  token,
		AirtableBaseID: baseID,
		AirtableTable:  getenv("AIRTABLE_TABLE", "Jobs"),
		RedisURL:       os.Getenv("REDIS_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Revalidate:     time.Duration(revalidate) * time.Second,
		SiteConfig:     getenv("SITE_CONFIG", "configs/site.yaml"),
		CORSOrigins:    splitOrigins(getenv("CORS_ORIGINS", "*")),
	}, nil
}

// ClampRevalidate bounds a revalidation interval to [60s, 24h].
func ClampRevalidate(seconds int) int {
	return min(max(seconds, MinRevalidate), MaxRevalidate)
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
