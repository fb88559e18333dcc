package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Fetch     FetchConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"

	// ShutdownTimeout bounds how long in-flight requests may drain.
	ShutdownTimeout time.Duration // default: 5s
}

// FetchConfig controls the outbound product page request.
type FetchConfig struct {
	// Timeout is the deadline for the single page fetch.
	Timeout time.Duration // default: 10s

	// Proxy is an optional http(s) proxy URL for the fetch.
	Proxy string

	// ChromeTLS presents a Chrome TLS ClientHello instead of Go's.
	ChromeTLS bool // default: true
}

// RateLimitConfig controls per-client rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per client IP.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per client IP.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultFetchTimeout is the fetch deadline used when none is configured.
const DefaultFetchTimeout = 10 * time.Second

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envOr("PDP_HOST", "0.0.0.0"),
			Port:            envIntOr("PDP_PORT", 8080),
			Mode:            envOr("PDP_MODE", "release"),
			ShutdownTimeout: envDurationOr("PDP_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Fetch: FetchConfig{
			Timeout:   envDurationOr("PDP_FETCH_TIMEOUT", DefaultFetchTimeout),
			Proxy:     os.Getenv("PDP_PROXY"),
			ChromeTLS: envBoolOr("PDP_CHROME_TLS", true),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("PDP_RATE_RPS", 5.0),
			Burst:             envIntOr("PDP_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("PDP_LOG_LEVEL", "info"),
			Format: envOr("PDP_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
