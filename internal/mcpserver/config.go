package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// serverConfig holds the MCP server settings. Loaded once at startup from
// OASOVERLAY_* environment variables; the MCP SDK has no
// initializationOptions channel, so env vars are the configuration surface.
type serverConfig struct {
	// CacheEnabled toggles the parse cache entirely.
	CacheEnabled bool
	// CacheTTL is how long parsed documents stay cached.
	CacheTTL time.Duration
	// CacheSize is the maximum number of cached parse results.
	CacheSize int
	// MaxInputBytes caps inline content and fetched document sizes.
	MaxInputBytes int64
	// FetchTimeout bounds URL fetches for specs and overlays.
	FetchTimeout time.Duration
	// LogLevel is the slog level for server diagnostics on stderr.
	LogLevel slog.Level
}

// cacheSweepInterval is how often the background sweeper evicts expired
// cache entries.
const cacheSweepInterval = 60 * time.Second

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from OASOVERLAY_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:  envBool("OASOVERLAY_MCP_CACHE_ENABLED", true),
		CacheTTL:      envDuration("OASOVERLAY_MCP_CACHE_TTL", 15*time.Minute),
		CacheSize:     envInt("OASOVERLAY_MCP_CACHE_SIZE", 16),
		MaxInputBytes: int64(envInt("OASOVERLAY_MCP_MAX_INPUT_BYTES", 10<<20)),
		FetchTimeout:  envDuration("OASOVERLAY_MCP_FETCH_TIMEOUT", 30*time.Second),
		LogLevel:      envLevel("OASOVERLAY_LOG_LEVEL", slog.LevelInfo),
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

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	switch strings.ToLower(v) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
}
