package api

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the server configuration, loaded from environment variables.
type Config struct {
	ListenAddr      string
	ServerDBPath    string
	ShutdownTimeout time.Duration
	APIKey          string // bearer key required on /schedulingHours; empty = open
	SeedBuiltins    bool   // create "Study" and "Work" on an empty database
	LogFormat       string // "json" (default) or "text"
	LogLevel        string // "debug", "info" (default), "warn", "error"

	RateLimitRead  int // GET requests per client IP per minute (default: 300)
	RateLimitWrite int // POST/PUT/DELETE per client IP per minute (default: 120)

	RateLimitEventRetention int // days (default: 30)

	CORSAllowedOrigins []string // browser origins allowed to call the API
}

// LoadConfig reads configuration from environment variables with sensible defaults.
func LoadConfig() Config {
	cfg := Config{
		ListenAddr:      ":8000",
		ServerDBPath:    "./data/hours.db",
		ShutdownTimeout: 30 * time.Second,
		SeedBuiltins:    true,
		LogFormat:       "json",
		LogLevel:        "info",

		RateLimitRead:  300,
		RateLimitWrite: 120,

		RateLimitEventRetention: 30,
	}

	if v := os.Getenv("HOURS_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("HOURS_DB_PATH"); v != "" {
		cfg.ServerDBPath = v
	}
	if v := os.Getenv("HOURS_SHUTDOWN_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.ShutdownTimeout = d
		}
	}
	if v := os.Getenv("HOURS_SERVER_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("HOURS_SEED_BUILTINS"); v == "false" || v == "0" {
		cfg.SeedBuiltins = false
	}
	if v := os.Getenv("HOURS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("HOURS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	if v := os.Getenv("HOURS_RATE_LIMIT_READ"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitRead = n
		}
	}
	if v := os.Getenv("HOURS_RATE_LIMIT_WRITE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateLimitWrite = n
		}
	}
	if v := os.Getenv("HOURS_RATE_LIMIT_EVENT_RETENTION"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSuffix(v, "d")); err == nil && n > 0 {
			cfg.RateLimitEventRetention = n
		}
	}

	if v := os.Getenv("HOURS_CORS_ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
			}
		}
	}

	return cfg
}
