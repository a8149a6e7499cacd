package mcpserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearOPENAPIXEnv clears all OPENAPIX_* env vars to isolate tests from the ambient environment.
func clearOPENAPIXEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAPIX_CACHE_ENABLED", "OPENAPIX_CACHE_MAX_SIZE",
		"OPENAPIX_CACHE_FILE_TTL", "OPENAPIX_CACHE_CONTENT_TTL",
		"OPENAPIX_CACHE_SWEEP_INTERVAL", "OPENAPIX_MAX_INLINE_SIZE",
		"OPENAPIX_OUTPUT_FORMAT", "OPENAPIX_VALIDATE_FULL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearOPENAPIXEnv(t)

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 15*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 60*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(10*1024*1024), c.MaxInlineSize)
	assert.Empty(t, c.OutputFormat)
	assert.False(t, c.ValidateFull)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	clearOPENAPIXEnv(t)
	t.Setenv("OPENAPIX_CACHE_ENABLED", "false")
	t.Setenv("OPENAPIX_CACHE_MAX_SIZE", "50")
	t.Setenv("OPENAPIX_CACHE_FILE_TTL", "30m")
	t.Setenv("OPENAPIX_CACHE_CONTENT_TTL", "10m")
	t.Setenv("OPENAPIX_CACHE_SWEEP_INTERVAL", "30s")
	t.Setenv("OPENAPIX_MAX_INLINE_SIZE", "1024")
	t.Setenv("OPENAPIX_OUTPUT_FORMAT", "YML")
	t.Setenv("OPENAPIX_VALIDATE_FULL", "true")

	c := loadConfig()

	assert.False(t, c.CacheEnabled)
	assert.Equal(t, 50, c.CacheMaxSize)
	assert.Equal(t, 30*time.Minute, c.CacheFileTTL)
	assert.Equal(t, 10*time.Minute, c.CacheContentTTL)
	assert.Equal(t, 30*time.Second, c.CacheSweepInterval)
	assert.Equal(t, int64(1024), c.MaxInlineSize)
	assert.Equal(t, "yaml", c.OutputFormat)
	assert.True(t, c.ValidateFull)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	clearOPENAPIXEnv(t)
	t.Setenv("OPENAPIX_CACHE_ENABLED", "maybe")
	t.Setenv("OPENAPIX_CACHE_MAX_SIZE", "-3")
	t.Setenv("OPENAPIX_CACHE_FILE_TTL", "soon")
	t.Setenv("OPENAPIX_OUTPUT_FORMAT", "xml")

	c := loadConfig()

	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 10, c.CacheMaxSize)
	assert.Equal(t, 15*time.Minute, c.CacheFileTTL)
	assert.Empty(t, c.OutputFormat)
}
