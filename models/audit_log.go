package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditLog records one engine run or admin mutation. Writes are
// fire-and-forget; a failed write never fails the request that caused it.
type AuditLog struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"eventId" json:"eventId"`
	Action    string             `bson:"action" json:"action"`
	ActorID   string             `bson:"actorId,omitempty" json:"actorId,omitempty"`
	SubjectID string             `bson:"subjectId,omitempty" json:"subjectId,omitempty"`
	Detail    interface{}        `bson:"detail,omitempty" json:"detail,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
