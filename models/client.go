package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Client status values
const (
	ClientStatusActive    = "active"
	ClientStatusPaused    = "paused"
	ClientStatusCancelled = "cancelled"
)

type Client struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email,omitempty" json:"email,omitempty"`
	Status    string             `bson:"status" json:"status"`
	SquadID   primitive.ObjectID `bson:"squadId,omitempty" json:"squadId,omitempty"`
	SellerID  primitive.ObjectID `bson:"sellerId,omitempty" json:"sellerId,omitempty"`
	ChurnedAt *time.Time         `bson:"churnedAt,omitempty" json:"churnedAt,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Activity is a single product-usage fact attributed to a client.
type Activity struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	Type      string             `bson:"type" json:"type"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Onboarding status values
const (
	OnboardingCompleted  = "completed"
	OnboardingDelayed    = "delayed"
	OnboardingInProgress = "in_progress"
)

type Onboarding struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID           primitive.ObjectID `bson:"clientId" json:"clientId"`
	Status             string             `bson:"status" json:"status"`
	ProgressPercentage float64            `bson:"progressPercentage" json:"progressPercentage"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}
