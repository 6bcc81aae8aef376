package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlascrm/atlas_backend/models"
)

func TestCapacityScore(t *testing.T) {
	assert.Equal(t, 100.0, CapacityScore(0, 10))
	assert.Equal(t, 50.0, CapacityScore(5, 10))
	assert.Equal(t, 0.0, CapacityScore(10, 10))
	assert.Equal(t, 0.0, CapacityScore(12, 10), "over capacity clamps to zero")
	assert.Equal(t, 0.0, CapacityScore(3, 0), "unset max capacity reads as exhausted")
}

func TestSLAComplianceScore(t *testing.T) {
	assert.Equal(t, 100.0, SLAComplianceScore(0, 0), "no clients means nothing violated")
	assert.Equal(t, 100.0, SLAComplianceScore(10, 0))
	assert.Equal(t, 70.0, SLAComplianceScore(10, 3))
	assert.Equal(t, 0.0, SLAComplianceScore(10, 10))
}

func TestDemandScore(t *testing.T) {
	assert.Equal(t, 100.0, DemandScore(0))
	assert.Equal(t, 80.0, DemandScore(10))
	assert.Equal(t, 0.0, DemandScore(50))
	assert.Equal(t, 0.0, DemandScore(80), "floor at zero")
}

func TestBacklogScore(t *testing.T) {
	assert.Equal(t, 100.0, BacklogScore(0, 0))
	assert.Equal(t, 75.0, BacklogScore(4, 10))
	assert.Equal(t, 0.0, BacklogScore(30, 20), "floor at zero")
}

func TestComputeSquadFactors(t *testing.T) {
	facts := SquadFacts{
		Squad:            models.Squad{MaxCapacity: 10, CurrentCapacity: 5},
		ClientCount:      10,
		AtRiskClients:    3,
		OpenTickets:      4,
		AvgTicketAgeDays: 10,
		RecentTickets:    300,
	}

	factors := ComputeSquadFactors(facts)
	assert.Equal(t, 50.0, factors[FactorCapacity])
	assert.Equal(t, 70.0, factors[FactorSLACompliance])
	assert.Equal(t, 80.0, factors[FactorDemand], "300 tickets over 30 days is 10 per day")
	assert.Equal(t, 75.0, factors[FactorBacklog])
}

func TestSquadWeightedOverallFromConfig(t *testing.T) {
	factors := map[string]float64{
		FactorCapacity:      50,
		FactorSLACompliance: 70,
		FactorDemand:        80,
		FactorBacklog:       75,
	}
	weights := map[string]float64{
		FactorCapacity:      0.30,
		FactorSLACompliance: 0.30,
		FactorDemand:        0.20,
		FactorBacklog:       0.20,
	}

	overall, err := WeightedOverall(factors, weights)
	require.NoError(t, err)
	assert.InDelta(t, 67, overall, 0.0001)
}

func TestSquadBands(t *testing.T) {
	bands := []Band{
		{Below: 50, Status: models.SquadStatusOverloaded},
		{Below: 70, Status: models.SquadStatusStretched},
	}

	assert.Equal(t, models.SquadStatusOverloaded, ClassifyBands(20, bands, models.SquadStatusHealthy))
	assert.Equal(t, models.SquadStatusStretched, ClassifyBands(67, bands, models.SquadStatusHealthy))
	assert.Equal(t, models.SquadStatusHealthy, ClassifyBands(85, bands, models.SquadStatusHealthy))
}

func TestBuildSquadRiskFactors(t *testing.T) {
	facts := SquadFacts{}
	factors := map[string]float64{
		FactorCapacity:      20,
		FactorSLACompliance: 60,
		FactorDemand:        40,
		FactorBacklog:       30,
	}

	riskFactors := buildSquadRiskFactors(facts, factors)
	assert.Len(t, riskFactors, 4)

	healthy := buildSquadRiskFactors(facts, map[string]float64{
		FactorCapacity:      90,
		FactorSLACompliance: 95,
		FactorDemand:        90,
		FactorBacklog:       85,
	})
	assert.Empty(t, healthy)
}

func TestThresholdOr(t *testing.T) {
	thresholds := map[string]float64{"stretched": 45}
	assert.Equal(t, 45.0, thresholdOr(thresholds, "stretched", 50))
	assert.Equal(t, 70.0, thresholdOr(thresholds, "healthy", 70))
	assert.Equal(t, 70.0, thresholdOr(nil, "healthy", 70))
}
