package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Health status values (client instantiation)
const (
	HealthStatusHealthy  = "healthy"
	HealthStatusAtRisk   = "at_risk"
	HealthStatusCritical = "critical"
)

// Squad health status values
const (
	SquadStatusHealthy    = "healthy"
	SquadStatusStretched  = "stretched"
	SquadStatusOverloaded = "overloaded"
)

// Churn risk status values
const (
	ChurnRiskLow    = "low_risk"
	ChurnRiskMedium = "medium_risk"
	ChurnRiskHigh   = "high_risk"
)

// Trend labels
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// ClientHealthScore is the single live health record for a client.
// PreviousScore keeps the one step back the trend comparison needs;
// Version is the optimistic-concurrency token.
type ClientHealthScore struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID        primitive.ObjectID `bson:"clientId" json:"clientId"`
	OverallScore    float64            `bson:"overallScore" json:"overall_score"`
	HealthStatus    string             `bson:"healthStatus" json:"health_status"`
	FactorScores    map[string]float64 `bson:"factorScores" json:"factor_scores"`
	Trend           string             `bson:"trend" json:"trend"`
	PreviousScore   *float64           `bson:"previousScore,omitempty" json:"previous_score,omitempty"`
	RiskFactors     []string           `bson:"riskFactors" json:"risk_factors"`
	Recommendations []string           `bson:"recommendations" json:"recommendations"`
	AIInsight       string             `bson:"aiInsight,omitempty" json:"ai_insight,omitempty"`
	Version         int64              `bson:"version" json:"version"`
	CalculatedAt    time.Time          `bson:"calculatedAt" json:"calculated_at"`
}

// SquadHealthScore is the single live health record for a squad.
type SquadHealthScore struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SquadID       primitive.ObjectID `bson:"squadId" json:"squad_id"`
	SquadName     string             `bson:"squadName" json:"squad_name"`
	OverallScore  float64            `bson:"overallScore" json:"overall_score"`
	HealthStatus  string             `bson:"healthStatus" json:"health_status"`
	FactorScores  map[string]float64 `bson:"factorScores" json:"factor_scores"`
	Trend         string             `bson:"trend" json:"trend"`
	PreviousScore *float64           `bson:"previousScore,omitempty" json:"previous_score,omitempty"`
	RiskFactors   []string           `bson:"riskFactors" json:"risk_factors"`
	Version       int64              `bson:"version" json:"version"`
	CalculatedAt  time.Time          `bson:"calculatedAt" json:"calculated_at"`
}

// ChurnRiskScore is the single live churn-risk record for a client.
// Higher scores mean higher risk.
type ChurnRiskScore struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	Score         float64            `bson:"score" json:"score"`
	Status        string             `bson:"status" json:"status"`
	Factors       []string           `bson:"factors" json:"factors"`
	Trend         string             `bson:"trend" json:"trend"`
	PreviousScore *float64           `bson:"previousScore,omitempty" json:"previous_score,omitempty"`
	Version       int64              `bson:"version" json:"version"`
	CalculatedAt  time.Time          `bson:"calculatedAt" json:"calculated_at"`
}

// Scoring config kinds
const (
	ScoringKindClientHealth = "client_health"
	ScoringKindSquadHealth  = "squad_health"
)

// ScoringConfig holds the weight map and classifier thresholds for one
// scoring instantiation. Squad health requires its config record; client
// health falls back to fixed default weights when none exists.
type ScoringConfig struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Kind       string             `bson:"kind" json:"kind"`
	Weights    map[string]float64 `bson:"weights" json:"weights"`
	Thresholds map[string]float64 `bson:"thresholds" json:"thresholds"`
	Status     string             `bson:"status" json:"status"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Request/response bodies

type ClientScoringRequest struct {
	ClientID string `json:"clientId" validate:"required"`
}

type ChurnRiskResponse struct {
	Success bool     `json:"success"`
	Score   int      `json:"score"`
	Status  string   `json:"status"`
	Factors []string `json:"factors"`
}

type ClientHealthResponse struct {
	Success     bool               `json:"success"`
	HealthScore *ClientHealthScore `json:"health_score,omitempty"`
}

type SquadScoringRequest struct {
	SquadID string `json:"squad_id" validate:"required"`
}

type SquadHealthResponse struct {
	Success bool              `json:"success"`
	Score   *SquadHealthScore `json:"score,omitempty"`
}

// SquadBulkError reports one squad's failure inside a bulk run that kept
// going.
type SquadBulkError struct {
	SquadID   string `json:"squad_id"`
	SquadName string `json:"squad_name"`
	Error     string `json:"error"`
}

type SquadBulkResponse struct {
	Success   bool             `json:"success"`
	Processed int              `json:"processed"`
	Errors    []SquadBulkError `json:"errors,omitempty"`
}
