package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scraper   ScraperConfig
	Sources   SourcesConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls how the Chromium process is launched.
type BrowserConfig struct {
	// Production selects the hardened launch profile: sandbox disabled and a
	// fixed executable path. Set with KQXS_ENV=production.
	Production bool

	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox. Forced on in production.
	NoSandbox bool

	// BrowserBin overrides the Chromium binary path.
	// default in production: "/usr/bin/chromium"
	BrowserBin string

	// Stealth injects anti-automation evasions into every new tab.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types dropped by the tab's hijack router.
	// default: ["Image", "Font", "Media"]
	BlockedResourceTypes []string

	// AcceptLanguage is sent with every request made by a tab.
	AcceptLanguage string // default: "vi-VN,vi;q=0.9,en;q=0.8"
}

// ScraperConfig controls per-request scraping behavior.
type ScraperConfig struct {
	// PageTimeout is the default deadline of every tab operation.
	PageTimeout time.Duration // default: 30s

	// AggregatorTimeout bounds the navigation to the results aggregator.
	AggregatorTimeout time.Duration // default: 60s

	// AcquireTimeout bounds how long a request waits for the browser slot.
	AcquireTimeout time.Duration // default: 2m

	// Timezone is used to resolve the calendar day of the requested date.
	Timezone string // default: "Asia/Ho_Chi_Minh"
}

// SourcesConfig holds the fixed upstream endpoints.
type SourcesConfig struct {
	// ProxyURL is the URL-forwarding site used to reach minhngoc pages.
	ProxyURL string

	// AggregatorURL is queried directly with ?ket_qua_xo_so=YYYY-MM-DD.
	AggregatorURL string

	// ShiftURL is the shift-schedule site used for non-Vietnam draws.
	ShiftURL string
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls admission to the result routes.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	// Non-positive disables the per-client bucket.
	RequestsPerSecond float64 // default: 1

	// Burst is the maximum burst size per API key or client IP.
	Burst int // default: 5

	// MaxWaiting is how many requests may queue for the browser session
	// before new ones are turned away. Non-positive disables the check.
	MaxWaiting int // default: 4

	// RetryAfter is advertised to callers turned away by MaxWaiting.
	RetryAfter time.Duration // default: 30s
}

// CacheConfig controls the result cache.
type CacheConfig struct {
	// TTL is how long a scraped result is reused. Zero disables the cache.
	TTL time.Duration // default: 0

	// MaxEntries is the maximum number of cached results.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"

	// File additionally writes logs to a size-rotated file. Empty disables it.
	File       string
	MaxSizeMB  int // default: 10
	MaxBackups int // default: 3
	MaxAgeDays int // default: 30
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	production := envOr("KQXS_ENV", "development") == "production"

	browserBin := os.Getenv("KQXS_BROWSER_BIN")
	if browserBin == "" && production {
		browserBin = "/usr/bin/chromium"
	}

	return &Config{
		Server: ServerConfig{
			Host: envOr("KQXS_HOST", "0.0.0.0"),
			Port: envIntOr("KQXS_PORT", 8080),
			Mode: envOr("KQXS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Production: production,
			Headless:   envBoolOr("KQXS_HEADLESS", true),
			NoSandbox:  production || envBoolOr("KQXS_NO_SANDBOX", false),
			BrowserBin: browserBin,
			Stealth:    envBoolOr("KQXS_STEALTH", false),
			BlockedResourceTypes: envSliceOr("KQXS_BLOCKED_RESOURCES", []string{
				"Image", "Font", "Media",
			}),
			AcceptLanguage: envOr("KQXS_ACCEPT_LANGUAGE", "vi-VN,vi;q=0.9,en;q=0.8"),
		},
		Scraper: ScraperConfig{
			PageTimeout:       envDurationOr("KQXS_PAGE_TIMEOUT", 30*time.Second),
			AggregatorTimeout: envDurationOr("KQXS_AGGREGATOR_TIMEOUT", 60*time.Second),
			AcquireTimeout:    envDurationOr("KQXS_ACQUIRE_TIMEOUT", 2*time.Minute),
			Timezone:          envOr("KQXS_TIMEZONE", "Asia/Ho_Chi_Minh"),
		},
		Sources: SourcesConfig{
			ProxyURL:      envOr("KQXS_PROXY_URL", "https://www.chineseproxy.net/index.php"),
			AggregatorURL: envOr("KQXS_AGGREGATOR_URL", "https://visothap.hanjery.com/"),
			ShiftURL:      envOr("KQXS_SHIFT_URL", "http://khmerlottery.biz/"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("KQXS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("KQXS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("KQXS_RATE_RPS", 1.0),
			Burst:             envIntOr("KQXS_RATE_BURST", 5),
			MaxWaiting:        envIntOr("KQXS_MAX_WAITING", 4),
			RetryAfter:        envDurationOr("KQXS_RETRY_AFTER", 30*time.Second),
		},
		Cache: CacheConfig{
			TTL:        envDurationOr("KQXS_CACHE_TTL", 0),
			MaxEntries: envIntOr("KQXS_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("KQXS_LOG_LEVEL", "info"),
			Format: envOr("KQXS_LOG_FORMAT", "json"),

			File:       os.Getenv("KQXS_LOG_FILE"),
			MaxSizeMB:  envIntOr("KQXS_LOG_MAX_SIZE_MB", 10),
			MaxBackups: envIntOr("KQXS_LOG_MAX_BACKUPS", 3),
			MaxAgeDays: envIntOr("KQXS_LOG_MAX_AGE_DAYS", 30),
		},
	}
}

// LoadEnvFiles loads variables from the given .env files (default ".env")
// without overriding variables already set. Missing files are ignored.
func LoadEnvFiles(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

// Location resolves the configured timezone, falling back to UTC.
func (c ScraperConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
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
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
