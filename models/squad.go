package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Squad struct {
	ID              primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name            string               `bson:"name" json:"name"`
	MaxCapacity     float64              `bson:"maxCapacity" json:"maxCapacity"`
	CurrentCapacity float64              `bson:"currentCapacity" json:"currentCapacity"`
	MemberIDs       []primitive.ObjectID `bson:"memberIds,omitempty" json:"memberIds,omitempty"`
	CreatedAt       time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Ticket status values
const (
	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in_progress"
	TicketStatusCompleted  = "completed"
)

// Ticket is a support/demand item handled by a squad for a client.
type Ticket struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID  primitive.ObjectID `bson:"clientId" json:"clientId"`
	SquadID   primitive.ObjectID `bson:"squadId,omitempty" json:"squadId,omitempty"`
	Subject   string             `bson:"subject,omitempty" json:"subject,omitempty"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
