package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/atlascrm/atlas_backend/models"
)

func commissionModel() models.OTEModel {
	return models.OTEModel{
		ID:                       primitive.NewObjectID(),
		Name:                     "standard",
		MonthlyTarget:            100000,
		FixedCommission:          5000,
		VariableCommissionRate:   10,
		EarlyChurnPeriodDays:     90,
		EarlyChurnPenaltyPercent: 100,
		Accelerators: []models.Accelerator{
			{ThresholdPercentage: 100, Multiplier: 1.3},
			{ThresholdPercentage: 80, Multiplier: 1.1},
		},
		Status: models.OTEModelStatusActive,
	}
}

func TestComputeOTE(t *testing.T) {
	model := commissionModel()
	sellerID := primitive.NewObjectID()
	start := time.Date(2026, 5, 3, 0, 0, 0, 0, time.UTC)
	contracts := []models.Contract{
		{ID: primitive.NewObjectID(), ClientID: primitive.NewObjectID(), SellerID: sellerID, MonthlyValue: 60000, StartDate: start},
		{ID: primitive.NewObjectID(), ClientID: primitive.NewObjectID(), SellerID: sellerID, MonthlyValue: 35000, StartDate: start},
	}

	calc := ComputeOTE(model, sellerID, "2026-05", contracts, nil, time.Now())

	assert.Equal(t, 95000.0, calc.MRRSold)
	assert.InDelta(t, 95, calc.TargetAchievementPct, 0.0001)
	assert.Equal(t, 1.1, calc.AcceleratorApplied)
	assert.InDelta(t, 9500, calc.VariableCommissionBase, 0.0001)
	assert.InDelta(t, 10450, calc.VariableCommissionFinal, 0.0001)
	assert.Equal(t, 5000.0, calc.FixedCommission)
	assert.Empty(t, calc.Penalties)
	assert.Equal(t, 0.0, calc.PenaltiesTotal)
	assert.InDelta(t, 15000, calc.OTEExpected, 0.0001)
	assert.InDelta(t, 15450, calc.OTERealized, 0.0001)
	assert.InDelta(t, 450, calc.OTEDifference, 0.0001)
	assert.Len(t, calc.ContractIDs, 2)
	assert.Equal(t, "2026-05", calc.Period)
	assert.Equal(t, model.ID, calc.ModelID)
}

func TestComputeOTEAtTargetAppliesTopAccelerator(t *testing.T) {
	model := commissionModel()
	sellerID := primitive.NewObjectID()
	contracts := []models.Contract{
		{ID: primitive.NewObjectID(), ClientID: primitive.NewObjectID(), SellerID: sellerID, MonthlyValue: 100000},
	}

	calc := ComputeOTE(model, sellerID, "2026-05", contracts, nil, time.Now())

	assert.InDelta(t, 100, calc.TargetAchievementPct, 0.0001)
	assert.Equal(t, 1.3, calc.AcceleratorApplied)
	assert.InDelta(t, 13000, calc.VariableCommissionFinal, 0.0001)
}

func TestComputeOTENoContracts(t *testing.T) {
	model := commissionModel()

	calc := ComputeOTE(model, primitive.NewObjectID(), "2026-05", nil, nil, time.Now())

	assert.Equal(t, 0.0, calc.MRRSold)
	assert.Equal(t, 0.0, calc.TargetAchievementPct)
	assert.Equal(t, 1.0, calc.AcceleratorApplied)
	assert.InDelta(t, 15000, calc.OTEExpected, 0.0001)
	assert.InDelta(t, 5000, calc.OTERealized, 0.0001, "fixed commission only")
}

func TestComputeOTEEarlyChurnPenalty(t *testing.T) {
	model := commissionModel()
	sellerID := primitive.NewObjectID()
	churnedClient := primitive.NewObjectID()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	contracts := []models.Contract{
		{ID: primitive.NewObjectID(), ClientID: churnedClient, SellerID: sellerID, MonthlyValue: 60000, StartDate: start},
		{ID: primitive.NewObjectID(), ClientID: primitive.NewObjectID(), SellerID: sellerID, MonthlyValue: 35000, StartDate: start},
	}
	churnDates := map[primitive.ObjectID]time.Time{
		churnedClient: start.AddDate(0, 0, 60),
	}

	calc := ComputeOTE(model, sellerID, "2026-05", contracts, churnDates, time.Now())

	require.Len(t, calc.Penalties, 1)
	entry := calc.Penalties[0]
	assert.Equal(t, contracts[0].ID, entry.ContractID)
	assert.Equal(t, churnedClient, entry.ClientID)
	assert.Equal(t, 60, entry.DaysSinceStart)
	// 60000 * 10% * 1.1 * 100% claw-back
	assert.InDelta(t, 6600, entry.Amount, 0.0001)
	assert.InDelta(t, 6600, calc.PenaltiesTotal, 0.0001)
	assert.InDelta(t, 15450-6600, calc.OTERealized, 0.0001)
}

func TestComputeOTEPenaltyWindowBoundary(t *testing.T) {
	model := commissionModel()
	sellerID := primitive.NewObjectID()
	clientID := primitive.NewObjectID()
	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	contracts := []models.Contract{
		{ID: primitive.NewObjectID(), ClientID: clientID, SellerID: sellerID, MonthlyValue: 60000, StartDate: start},
	}

	onWindow := ComputeOTE(model, sellerID, "2026-05", contracts,
		map[primitive.ObjectID]time.Time{clientID: start.AddDate(0, 0, model.EarlyChurnPeriodDays)}, time.Now())
	assert.Len(t, onWindow.Penalties, 1, "churn on the last window day is penalized")

	pastWindow := ComputeOTE(model, sellerID, "2026-05", contracts,
		map[primitive.ObjectID]time.Time{clientID: start.AddDate(0, 0, model.EarlyChurnPeriodDays+1)}, time.Now())
	assert.Empty(t, pastWindow.Penalties, "churn past the window is not penalized")
}

func TestEarlyChurnPenaltyAmount(t *testing.T) {
	assert.InDelta(t, 6600, EarlyChurnPenaltyAmount(60000, 10, 1.1, 100), 0.0001)
	assert.InDelta(t, 3300, EarlyChurnPenaltyAmount(60000, 10, 1.1, 50), 0.0001)
	assert.Equal(t, 0.0, EarlyChurnPenaltyAmount(60000, 10, 1.1, 0))
}

func TestSumPenalties(t *testing.T) {
	assert.Equal(t, 0.0, SumPenalties(nil))
	entries := []models.PenaltyEntry{{Amount: 1200.5}, {Amount: 799.5}}
	assert.InDelta(t, 2000, SumPenalties(entries), 0.0001)
}

func TestHasPenaltyForContract(t *testing.T) {
	recorded := primitive.NewObjectID()
	other := primitive.NewObjectID()
	ledger := []models.PenaltyEntry{
		{EntryID: "a", ContractID: recorded, Amount: 6600},
		{EntryID: "b", ContractID: other, Amount: 1200},
	}

	assert.True(t, HasPenaltyForContract(ledger, recorded))
	assert.True(t, HasPenaltyForContract(ledger, other))
	assert.False(t, HasPenaltyForContract(ledger, primitive.NewObjectID()))
	assert.False(t, HasPenaltyForContract(nil, recorded))
}

func TestPenaltyLedgerRefusesSecondEntryPerContract(t *testing.T) {
	contractID := primitive.NewObjectID()
	ledger := []models.PenaltyEntry{
		{EntryID: "a", ContractID: contractID, Amount: 6600},
	}

	// A repeated churn event for the same contract must not grow the
	// ledger or the derived total.
	require.True(t, HasPenaltyForContract(ledger, contractID))
	totalBefore := SumPenalties(ledger)

	if !HasPenaltyForContract(ledger, contractID) {
		ledger = append(ledger, models.PenaltyEntry{EntryID: "b", ContractID: contractID, Amount: 6600})
	}

	assert.Len(t, ledger, 1)
	assert.Equal(t, totalBefore, SumPenalties(ledger))
}
