package mcpserver

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEnvBool(t *testing.T) {
	t.Run("unset uses fallback", func(t *testing.T) {
		assert.True(t, envBool("OASOVERLAY_TEST_BOOL", true))
		assert.False(t, envBool("OASOVERLAY_TEST_BOOL", false))
	})

	t.Run("valid value", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_BOOL", "false")
		assert.False(t, envBool("OASOVERLAY_TEST_BOOL", true))
	})

	t.Run("invalid value uses fallback", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_BOOL", "maybe")
		assert.True(t, envBool("OASOVERLAY_TEST_BOOL", true))
	})
}

func TestEnvInt(t *testing.T) {
	t.Run("unset uses fallback", func(t *testing.T) {
		assert.Equal(t, 16, envInt("OASOVERLAY_TEST_INT", 16))
	})

	t.Run("valid value", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_INT", "42")
		assert.Equal(t, 42, envInt("OASOVERLAY_TEST_INT", 16))
	})

	t.Run("zero rejected", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_INT", "0")
		assert.Equal(t, 16, envInt("OASOVERLAY_TEST_INT", 16))
	})

	t.Run("garbage uses fallback", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_INT", "lots")
		assert.Equal(t, 16, envInt("OASOVERLAY_TEST_INT", 16))
	})
}

func TestEnvDuration(t *testing.T) {
	t.Run("unset uses fallback", func(t *testing.T) {
		assert.Equal(t, time.Minute, envDuration("OASOVERLAY_TEST_DUR", time.Minute))
	})

	t.Run("valid value", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_DUR", "90s")
		assert.Equal(t, 90*time.Second, envDuration("OASOVERLAY_TEST_DUR", time.Minute))
	})

	t.Run("negative rejected", func(t *testing.T) {
		t.Setenv("OASOVERLAY_TEST_DUR", "-5s")
		assert.Equal(t, time.Minute, envDuration("OASOVERLAY_TEST_DUR", time.Minute))
	})
}

func TestEnvLevel(t *testing.T) {
	tests := []struct {
		value string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"loud", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("OASOVERLAY_TEST_LEVEL", tt.value)
			assert.Equal(t, tt.want, envLevel("OASOVERLAY_TEST_LEVEL", slog.LevelInfo))
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	c := loadConfig()
	assert.True(t, c.CacheEnabled)
	assert.Equal(t, 15*time.Minute, c.CacheTTL)
	assert.Equal(t, 16, c.CacheSize)
	assert.Equal(t, int64(10<<20), c.MaxInputBytes)
	assert.Equal(t, 30*time.Second, c.FetchTimeout)
}
