package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Capture   CaptureConfig
	LLM       LLMConfig
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

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 5

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// DefaultProxy is the default proxy URL for all requests.
	DefaultProxy string

	// UserAgent is the user-agent string presented to target pages.
	UserAgent string

	// Stealth enables anti-bot-detection evasions
	// (navigator.webdriver masking etc.). Default: true.
	Stealth bool
}

// CaptureConfig controls capture behavior.
type CaptureConfig struct {
	// DefaultTimeout is the hard deadline for one capture operation.
	DefaultTimeout time.Duration // default: 90s

	// NavTimeout bounds the primary navigation attempt, which waits for
	// the network to go mostly idle.
	NavTimeout time.Duration // default: 30s

	// FallbackNavTimeout bounds the single fallback navigation attempt,
	// which only waits for DOMContentLoaded.
	FallbackNavTimeout time.Duration // default: 20s

	// MaxWaitTime caps the client-requested settle delay.
	MaxWaitTime time.Duration // default: 30s

	// ContentBudget is the character cap applied to the content digest
	// before it enters the snapshot.
	ContentBudget int // default: 15000
}

// LLMConfig controls the completion-service client.
type LLMConfig struct {
	// APIKey authenticates against the completion service.
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint root.
	BaseURL string // default: "https://api.openai.com/v1"

	// DefaultModel is substituted for any model identifier outside
	// SupportedModels.
	DefaultModel string // default: "gpt-4o"

	// SupportedModels is the fixed allow-list of vision-capable models.
	SupportedModels []string // default: ["gpt-4o", "gpt-4o-mini"]

	// MaxTokens bounds the completion length.
	MaxTokens int // default: 4000

	// Temperature and TopP favor deterministic output.
	Temperature float64 // default: 0.05
	TopP        float64 // default: 0.9

	// Timeout is the deadline for one completion round-trip.
	Timeout time.Duration // default: 120s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key or client IP.
	RequestsPerSecond float64 // default: 2

	// Burst is the maximum burst size per identity.
	Burst int // default: 5
}

// CacheConfig controls the snapshot response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 256
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// defaultUserAgent is a realistic desktop Chrome user-agent so target pages
// render their normal desktop layout.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("REWEAVE_HOST", "0.0.0.0"),
			Port: envIntOr("REWEAVE_PORT", 8080),
			Mode: envOr("REWEAVE_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("REWEAVE_HEADLESS", true),
			MaxPages:     envIntOr("REWEAVE_MAX_PAGES", 5),
			NoSandbox:    envBoolOr("REWEAVE_NO_SANDBOX", false),
			BrowserBin:   os.Getenv("REWEAVE_BROWSER_BIN"),
			DefaultProxy: os.Getenv("REWEAVE_PROXY"),
			UserAgent:    envOr("REWEAVE_USER_AGENT", defaultUserAgent),
			Stealth:      envBoolOr("REWEAVE_STEALTH", true),
		},
		Capture: CaptureConfig{
			DefaultTimeout:     envDurationOr("REWEAVE_CAPTURE_TIMEOUT", 90*time.Second),
			NavTimeout:         envDurationOr("REWEAVE_NAV_TIMEOUT", 30*time.Second),
			FallbackNavTimeout: envDurationOr("REWEAVE_FALLBACK_NAV_TIMEOUT", 20*time.Second),
			MaxWaitTime:        envDurationOr("REWEAVE_MAX_WAIT_TIME", 30*time.Second),
			ContentBudget:      envIntOr("REWEAVE_CONTENT_BUDGET", 15000),
		},
		LLM: LLMConfig{
			APIKey:          os.Getenv("OPENAI_API_KEY"),
			BaseURL:         envOr("REWEAVE_LLM_BASE_URL", "https://api.openai.com/v1"),
			DefaultModel:    envOr("REWEAVE_LLM_DEFAULT_MODEL", "gpt-4o"),
			SupportedModels: envSliceOr("REWEAVE_LLM_MODELS", []string{"gpt-4o", "gpt-4o-mini"}),
			MaxTokens:       envIntOr("REWEAVE_LLM_MAX_TOKENS", 4000),
			Temperature:     envFloatOr("REWEAVE_LLM_TEMPERATURE", 0.05),
			TopP:            envFloatOr("REWEAVE_LLM_TOP_P", 0.9),
			Timeout:         envDurationOr("REWEAVE_LLM_TIMEOUT", 120*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("REWEAVE_AUTH_ENABLED", false),
			APIKeys: envSliceOr("REWEAVE_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("REWEAVE_RATE_RPS", 2.0),
			Burst:             envIntOr("REWEAVE_RATE_BURST", 5),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("REWEAVE_CACHE_MAX_ENTRIES", 256),
		},
		Log: LogConfig{
			Level:  envOr("REWEAVE_LOG_LEVEL", "info"),
			Format: envOr("REWEAVE_LOG_FORMAT", "json"),
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
