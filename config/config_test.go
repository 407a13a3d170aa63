package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/merchants")

	cfg, _, err := Load("testdata/missing.env")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.Address)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "gemini-1.5-pro", cfg.GeminiModel)
	assert.Equal(t, 100, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.False(t, cfg.AuthEnabled())
	assert.False(t, cfg.AssistantEnabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, _, err := Load("testdata/missing.env")
	assert.Error(t, err)
}

func TestAsOfPinsNow(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/merchants")
	t.Setenv("ANALYTICS_AS_OF", "2023-06-30")

	cfg, _, err := Load("testdata/missing.env")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 30, 0, 0, 0, 0, time.UTC), cfg.Now())
}

func TestInvalidAsOf(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/merchants")
	t.Setenv("ANALYTICS_AS_OF", "30/06/2023")

	_, _, err := Load("testdata/missing.env")
	assert.ErrorContains(t, err, "ANALYTICS_AS_OF")
}

func TestInvalidLogFormat(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/merchants")
	t.Setenv("LOG_FORMAT", "xml")

	_, _, err := Load("testdata/missing.env")
	assert.ErrorContains(t, err, "LOG_FORMAT")
}
