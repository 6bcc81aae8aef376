package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTEModel status values
const (
	OTEModelStatusActive   = "active"
	OTEModelStatusInactive = "inactive"
)

// Accelerator boosts the variable commission once the achievement
// percentage reaches its threshold. The stored set is unordered;
// selection evaluates descending thresholds, first match wins.
type Accelerator struct {
	ThresholdPercentage float64 `bson:"thresholdPercentage" json:"thresholdPercentage"`
	Multiplier          float64 `bson:"multiplier" json:"multiplier"`
}

// OTEModel is the commission configuration an admin owns. A model with a
// nil SellerID and IsDefault set is the fallback for sellers without a
// model of their own. Runs reference it, never mutate it.
type OTEModel struct {
	ID                         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name                       string              `bson:"name" json:"name"`
	SellerID                   *primitive.ObjectID `bson:"sellerId,omitempty" json:"sellerId,omitempty"`
	IsDefault                  bool                `bson:"isDefault" json:"isDefault"`
	MonthlyTarget              float64             `bson:"monthlyTarget" json:"monthlyTarget"`
	FixedCommission            float64             `bson:"fixedCommission" json:"fixedCommission"`
	VariableCommissionRate     float64             `bson:"variableCommissionRate" json:"variableCommissionRate"`
	EarlyChurnPeriodDays       int                 `bson:"earlyChurnPeriodDays" json:"earlyChurnPeriodDays"`
	EarlyChurnPenaltyPercent   float64             `bson:"earlyChurnPenaltyPercentage" json:"earlyChurnPenaltyPercentage"`
	Accelerators               []Accelerator       `bson:"accelerators" json:"accelerators"`
	Status                     string              `bson:"status" json:"status"`
	CreatedAt                  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt                  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PenaltyEntry is one early-churn penalty in the append-only ledger of an
// OTECalculation, keyed by the churned contract. At most one entry per
// contract id may exist; PenaltiesTotal is always derived by summation.
type PenaltyEntry struct {
	EntryID        string             `bson:"entryId" json:"entryId"`
	ContractID     primitive.ObjectID `bson:"contractId" json:"contractId"`
	ClientID       primitive.ObjectID `bson:"clientId" json:"clientId"`
	Amount         float64            `bson:"amount" json:"amount"`
	DaysSinceStart int                `bson:"daysSinceStart" json:"daysSinceStart"`
	AppliedAt      time.Time          `bson:"appliedAt" json:"appliedAt"`
}

// OTECalculation holds the commission result for one (seller, period)
// natural key. Period is a YYYY-MM string. Version is the
// optimistic-concurrency token bumped on every update.
type OTECalculation struct {
	ID                      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SellerID                primitive.ObjectID   `bson:"sellerId" json:"sellerId"`
	Period                  string               `bson:"period" json:"period"`
	ModelID                 primitive.ObjectID   `bson:"modelId" json:"modelId"`
	MRRSold                 float64              `bson:"mrrSold" json:"mrrSold"`
	TargetAchievementPct    float64              `bson:"targetAchievementPercentage" json:"targetAchievementPercentage"`
	AcceleratorApplied      float64              `bson:"acceleratorApplied" json:"acceleratorApplied"`
	VariableCommissionBase  float64              `bson:"variableCommissionBase" json:"variableCommissionBase"`
	VariableCommissionFinal float64              `bson:"variableCommissionFinal" json:"variableCommissionFinal"`
	FixedCommission         float64              `bson:"fixedCommission" json:"fixedCommission"`
	Penalties               []PenaltyEntry       `bson:"penalties" json:"penalties"`
	PenaltiesTotal          float64              `bson:"penaltiesTotal" json:"penaltiesTotal"`
	OTEExpected             float64              `bson:"oteExpected" json:"oteExpected"`
	OTERealized             float64              `bson:"oteRealized" json:"oteRealized"`
	OTEDifference           float64              `bson:"oteDifference" json:"oteDifference"`
	ContractIDs             []primitive.ObjectID `bson:"contractIds" json:"contractIds"`
	Version                 int64                `bson:"version" json:"version"`
	CalculatedAt            time.Time            `bson:"calculatedAt" json:"calculatedAt"`
}

// OTECalculationRequest is the body for a commission calculation run.
type OTECalculationRequest struct {
	SellerID string `json:"seller_id" validate:"required"`
	Period   string `json:"period" validate:"required"`
}

type OTECalculationResponse struct {
	Success     bool            `json:"success"`
	Calculation *OTECalculation `json:"calculation,omitempty"`
}

// ChurnPenaltyRequest is the body for an event-triggered penalty run.
type ChurnPenaltyRequest struct {
	ContractID string `json:"contract_id" validate:"required"`
	ClientID   string `json:"client_id" validate:"required"`
}

// ChurnPenaltyResponse reports whether the penalty was applied; when it
// was not, Message says why.
type ChurnPenaltyResponse struct {
	Applied        bool    `json:"applied"`
	PenaltyAmount  float64 `json:"penalty_amount,omitempty"`
	DaysSinceStart int     `json:"days_since_start,omitempty"`
	Message        string  `json:"message,omitempty"`
}
