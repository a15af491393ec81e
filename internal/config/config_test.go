package config

import (
	"testing"

	"github.com/grandoak/hospital-backend/internal/pkg/interval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/hospital")
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, interval.TimeOfDay(8*60), cfg.BusinessHoursStart)
	assert.Equal(t, interval.TimeOfDay(17*60), cfg.BusinessHoursEnd)
	assert.Equal(t, 30, cfg.SlotGranularity)
	assert.Equal(t, "UTC", cfg.ScheduleLocation.String())
	assert.False(t, cfg.IsProduction)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")
	t.Setenv("JWT_SECRET", "test-secret")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvertedBusinessHours(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost/hospital")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("BUSINESS_HOURS_START", "18:00")
	t.Setenv("BUSINESS_HOURS_END", "08:00")

	_, err := Load()
	assert.Error(t, err)
}
