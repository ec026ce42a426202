package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.App.Port)

	// Conversion rates fall back to the documented defaults
	assert.Equal(t, 100, cfg.Rewards.PointsPerRupee)
	assert.Equal(t, 10, cfg.Rewards.PointsPerKg)
}

func TestLoad_RewardRateOverrides(t *testing.T) {
	t.Setenv("POINTS_PER_RUPEE", "50")
	t.Setenv("POINTS_PER_KG", "20")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.Rewards.PointsPerRupee)
	assert.Equal(t, 20, cfg.Rewards.PointsPerKg)
}

func TestLoad_NonNumericRateFallsBack(t *testing.T) {
	t.Setenv("POINTS_PER_RUPEE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Rewards.PointsPerRupee)
}

func TestValidate_RejectsNonPositiveRates(t *testing.T) {
	t.Setenv("POINTS_PER_RUPEE", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate_ProductionRequiresRealSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DB_PASSWORD", "something")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}
