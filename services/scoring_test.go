package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlascrm/atlas_backend/models"
)

func TestWeightedOverall(t *testing.T) {
	scores := map[string]float64{"a": 80, "b": 60}
	weights := map[string]float64{"a": 0.75, "b": 0.25}

	overall, err := WeightedOverall(scores, weights)
	require.NoError(t, err)
	assert.InDelta(t, 75, overall, 0.0001)
}

func TestWeightedOverallSkipsMissingSubScore(t *testing.T) {
	scores := map[string]float64{"a": 80}
	weights := map[string]float64{"a": 0.5, "b": 0.5}

	overall, err := WeightedOverall(scores, weights)
	require.NoError(t, err)
	// normalization only counts the weights that found a sub-score
	assert.InDelta(t, 80, overall, 0.0001)
}

func TestWeightedOverallRejectsZeroTotalWeight(t *testing.T) {
	_, err := WeightedOverall(map[string]float64{"a": 80}, map[string]float64{})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)

	_, err = WeightedOverall(map[string]float64{"a": 80}, map[string]float64{"b": 1})
	assert.ErrorIs(t, err, ErrInvalidConfiguration, "weights that match no sub-score")
}

func TestWeightedOverallRejectsNegativeWeight(t *testing.T) {
	_, err := WeightedOverall(map[string]float64{"a": 80}, map[string]float64{"a": -0.5})
	assert.ErrorIs(t, err, ErrInvalidConfiguration)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-10))
	assert.Equal(t, 100.0, Clamp(140))
	assert.Equal(t, 55.5, Clamp(55.5))
}

func TestClassifyBands(t *testing.T) {
	bands := []Band{
		{Below: 50, Status: models.HealthStatusCritical},
		{Below: 70, Status: models.HealthStatusAtRisk},
	}

	assert.Equal(t, models.HealthStatusCritical, ClassifyBands(0, bands, models.HealthStatusHealthy))
	assert.Equal(t, models.HealthStatusCritical, ClassifyBands(49.9, bands, models.HealthStatusHealthy))
	assert.Equal(t, models.HealthStatusAtRisk, ClassifyBands(50, bands, models.HealthStatusHealthy), "boundary belongs to the upper band")
	assert.Equal(t, models.HealthStatusAtRisk, ClassifyBands(69.9, bands, models.HealthStatusHealthy))
	assert.Equal(t, models.HealthStatusHealthy, ClassifyBands(70, bands, models.HealthStatusHealthy))
	assert.Equal(t, models.HealthStatusHealthy, ClassifyBands(100, bands, models.HealthStatusHealthy))
}

func TestTrend(t *testing.T) {
	prev := 70.0

	assert.Equal(t, models.TrendImproving, Trend(&prev, 78))
	assert.Equal(t, models.TrendDeclining, Trend(&prev, 60))
	assert.Equal(t, models.TrendStable, Trend(&prev, 72))
	assert.Equal(t, models.TrendStable, Trend(&prev, 75), "exactly +5 is stable")
	assert.Equal(t, models.TrendStable, Trend(&prev, 65), "exactly -5 is stable")
	assert.Equal(t, models.TrendStable, Trend(nil, 90), "no prior record")
}

func TestRiskTrend(t *testing.T) {
	prev := 40.0

	// higher risk is worse, so the labels invert against Trend
	assert.Equal(t, models.TrendDeclining, RiskTrend(&prev, 50))
	assert.Equal(t, models.TrendImproving, RiskTrend(&prev, 30))
	assert.Equal(t, models.TrendStable, RiskTrend(&prev, 43))
	assert.Equal(t, models.TrendStable, RiskTrend(&prev, 45), "exactly +5 is stable")
	assert.Equal(t, models.TrendStable, RiskTrend(nil, 80), "no prior record")
}

func TestSelectAccelerator(t *testing.T) {
	accelerators := []models.Accelerator{
		{ThresholdPercentage: 50, Multiplier: 1.2},
		{ThresholdPercentage: 80, Multiplier: 1.5},
	}

	assert.Equal(t, 1.5, SelectAccelerator(accelerators, 82))
	assert.Equal(t, 1.5, SelectAccelerator(accelerators, 80), "threshold is inclusive")
	assert.Equal(t, 1.2, SelectAccelerator(accelerators, 60))
	assert.Equal(t, 1.0, SelectAccelerator(accelerators, 10))
	assert.Equal(t, 1.0, SelectAccelerator(nil, 150), "no accelerators configured")
}

func TestSelectAcceleratorDoesNotMutateInput(t *testing.T) {
	accelerators := []models.Accelerator{
		{ThresholdPercentage: 50, Multiplier: 1.2},
		{ThresholdPercentage: 80, Multiplier: 1.5},
	}

	SelectAccelerator(accelerators, 90)
	assert.Equal(t, 50.0, accelerators[0].ThresholdPercentage)
	assert.Equal(t, 80.0, accelerators[1].ThresholdPercentage)
}
