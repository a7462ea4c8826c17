package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestGetEnvAsInt tests the getEnvAsInt helper function
func TestGetEnvAsInt(t *testing.T) {
	t.Run("returns default value when env var not set", func(t *testing.T) {
		os.Unsetenv("TEST_INT_VAR")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("parses valid integer from env var", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "100")
		assert.Equal(t, 100, getEnvAsInt("TEST_INT_VAR", 42))
	})

	t.Run("returns default for invalid integer", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "not-a-number")
		assert.Equal(t, 42, getEnvAsInt("TEST_INT_VAR", 42), "Should return default for invalid integer")
	})

	t.Run("parses zero", func(t *testing.T) {
		t.Setenv("TEST_INT_VAR", "0")
		assert.Equal(t, 0, getEnvAsInt("TEST_INT_VAR", 42))
	})
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		set      bool
		expected time.Duration
	}{
		{"unset uses default", "", false, time.Minute},
		{"seconds", "45s", true, 45 * time.Second},
		{"compound", "1h30m", true, 90 * time.Minute},
		{"garbage falls back", "soon", true, time.Minute},
		{"bare number falls back", "30", true, time.Minute},
		{"non-positive falls back", "0s", true, time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.set {
				t.Setenv("TEST_DURATION_VAR", tt.value)
			} else {
				os.Unsetenv("TEST_DURATION_VAR")
			}
			assert.Equal(t, tt.expected, getEnvAsDuration("TEST_DURATION_VAR", time.Minute))
		})
	}
}

func TestGetEnv_EmptyValueIsRespected(t *testing.T) {
	t.Setenv("TEST_STR_VAR", "")
	assert.Equal(t, "", getEnv("TEST_STR_VAR", "fallback"))
}
