package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("requires a session secret", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SESSION_SECRET")
	})

	t.Run("applies defaults", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "test-secret")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "8091", cfg.ServerPort)
		assert.Equal(t, "http://localhost:3000", cfg.API.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.API.Timeout)
		assert.Equal(t, "Africa/Lagos", cfg.DepartureLocation().String())
	})

	t.Run("reads overrides from the environment", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "test-secret")
		t.Setenv("API_BASE_URL", "https://tickets.example.com")
		t.Setenv("API_TIMEOUT", "3s")
		t.Setenv("DEPARTURE_TIMEZONE", "UTC")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "https://tickets.example.com", cfg.API.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.API.Timeout)
		assert.Equal(t, time.UTC, cfg.DepartureLocation())
	})

	t.Run("rejects an unknown timezone", func(t *testing.T) {
		t.Setenv("SESSION_SECRET", "test-secret")
		t.Setenv("DEPARTURE_TIMEZONE", "Mars/Olympus_Mons")
		_, err := Load()
		require.Error(t, err)
	})
}

func TestDepartureLocationZeroValue(t *testing.T) {
	var cfg Config
	assert.Equal(t, time.UTC, cfg.DepartureLocation())
}
