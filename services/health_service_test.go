package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlascrm/atlas_backend/models"
)

func TestProductUsageScore(t *testing.T) {
	assert.Equal(t, 0.0, ProductUsageScore(0))
	assert.Equal(t, 50.0, ProductUsageScore(5))
	assert.Equal(t, 100.0, ProductUsageScore(10))
	assert.Equal(t, 100.0, ProductUsageScore(25), "clamped above ten activities")
}

func TestSupportScore(t *testing.T) {
	assert.Equal(t, 100.0, SupportScore(0))
	assert.Equal(t, 70.0, SupportScore(2))
	assert.Equal(t, 0.0, SupportScore(10), "floor at zero")
}

func TestContractScore(t *testing.T) {
	assert.Equal(t, 100.0, ContractScore(models.ClientStatusActive, 2))
	assert.Equal(t, 70.0, ContractScore(models.ClientStatusActive, 0))
	assert.Equal(t, 60.0, ContractScore(models.ClientStatusPaused, 1))
	assert.Equal(t, 30.0, ContractScore(models.ClientStatusPaused, 0))
	assert.Equal(t, 0.0, ContractScore(models.ClientStatusCancelled, 3), "cancelled overrides everything")
}

func TestEngagementScore(t *testing.T) {
	assert.Equal(t, 70.0, EngagementScore(nil), "no onboarding record is neutral")
	assert.Equal(t, 100.0, EngagementScore(&models.Onboarding{Status: models.OnboardingCompleted}))
	assert.Equal(t, 40.0, EngagementScore(&models.Onboarding{Status: models.OnboardingDelayed}))
	assert.Equal(t, 80.0, EngagementScore(&models.Onboarding{Status: models.OnboardingInProgress, ProgressPercentage: 50}))
	assert.Equal(t, 100.0, EngagementScore(&models.Onboarding{Status: models.OnboardingInProgress, ProgressPercentage: 100}))
}

func TestComputeClientFactorsIsDeterministic(t *testing.T) {
	facts := ClientFacts{
		Client:          models.Client{Status: models.ClientStatusActive},
		ActiveContracts: 1,
		RecentActivity:  6,
		OpenTickets:     1,
		Onboarding:      &models.Onboarding{Status: models.OnboardingCompleted},
	}

	first := ComputeClientFactors(facts)
	second := ComputeClientFactors(facts)
	assert.Equal(t, first, second)

	assert.Equal(t, 60.0, first[FactorProductUsage])
	assert.Equal(t, 85.0, first[FactorSupport])
	assert.Equal(t, 100.0, first[FactorContract])
	assert.Equal(t, 100.0, first[FactorEngagement])
}

func TestDefaultClientWeightsCombine(t *testing.T) {
	factors := map[string]float64{
		FactorProductUsage: 60,
		FactorSupport:      85,
		FactorContract:     100,
		FactorEngagement:   100,
	}

	overall, err := WeightedOverall(factors, DefaultClientWeights)
	require.NoError(t, err)
	// 60*0.30 + 85*0.25 + 100*0.25 + 100*0.20
	assert.InDelta(t, 84.25, overall, 0.0001)
}

func TestBuildRiskFactors(t *testing.T) {
	facts := ClientFacts{
		Client:          models.Client{Status: models.ClientStatusPaused},
		ActiveContracts: 0,
		Onboarding:      &models.Onboarding{Status: models.OnboardingDelayed},
	}
	factors := map[string]float64{
		FactorProductUsage: 20,
		FactorSupport:      40,
	}

	riskFactors, recommendations := buildRiskFactors(facts, factors)
	assert.Contains(t, riskFactors, "client is paused")
	assert.Contains(t, riskFactors, "no active contracts")
	assert.Contains(t, riskFactors, "low product usage in the last 30 days")
	assert.Contains(t, riskFactors, "open support tickets accumulating")
	assert.Contains(t, riskFactors, "onboarding is delayed")
	assert.NotEmpty(t, recommendations)
}

func TestBuildRiskFactorsHealthyClient(t *testing.T) {
	facts := ClientFacts{
		Client:          models.Client{Status: models.ClientStatusActive},
		ActiveContracts: 2,
	}
	factors := map[string]float64{
		FactorProductUsage: 90,
		FactorSupport:      100,
	}

	riskFactors, recommendations := buildRiskFactors(facts, factors)
	assert.Empty(t, riskFactors)
	assert.Empty(t, recommendations)
}

func TestChurnRiskBands(t *testing.T) {
	bands := []Band{
		{Below: 30, Status: models.ChurnRiskLow},
		{Below: 50, Status: models.ChurnRiskMedium},
	}

	assert.Equal(t, models.ChurnRiskLow, ClassifyBands(10, bands, models.ChurnRiskHigh))
	assert.Equal(t, models.ChurnRiskMedium, ClassifyBands(30, bands, models.ChurnRiskHigh))
	assert.Equal(t, models.ChurnRiskHigh, ClassifyBands(50, bands, models.ChurnRiskHigh))
}
