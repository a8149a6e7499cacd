package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// MaxInlineSize caps inline spec and config content, in bytes.
	MaxInlineSize int64

	// OutputFormat is the default document format ("yaml", "json" or "" for the source format).
	OutputFormat string

	// ValidateFull runs the OpenAPI 3 validator in schema_validate by default.
	ValidateFull bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OPENAPIX_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("OPENAPIX_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("OPENAPIX_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("OPENAPIX_CACHE_FILE_TTL", 15*time.Minute),
		CacheContentTTL:    envDuration("OPENAPIX_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("OPENAPIX_CACHE_SWEEP_INTERVAL", 60*time.Second),
		MaxInlineSize:      int64(envInt("OPENAPIX_MAX_INLINE_SIZE", 10*1024*1024)),
		OutputFormat:       envFormat("OPENAPIX_OUTPUT_FORMAT"),
		ValidateFull:       envBool("OPENAPIX_VALIDATE_FULL", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envFormat(key string) string {
	v := strings.ToLower(os.Getenv(key))
	switch v {
	case "", "yaml", "json":
		return v
	case "yml":
		return "yaml"
	default:
		slog.Warn("invalid format env var, ignoring", "key", key, "value", v)
		return ""
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}
