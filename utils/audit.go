// utils/audit.go
package utils

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/models"
)

// AuditLogger writes audit entries in the background. Failures are logged
// and never propagated to the request that triggered them.
type AuditLogger struct {
	collection *mongo.Collection
}

func NewAuditLogger(db *mongo.Database) *AuditLogger {
	return &AuditLogger{collection: db.Collection("auditLogs")}
}

// Record queues one audit entry. It returns immediately; the write runs
// in its own goroutine with its own timeout.
func (a *AuditLogger) Record(action, actorID, subjectID string, detail interface{}) {
	entry := models.AuditLog{
		EventID:   uuid.NewString(),
		Action:    action,
		ActorID:   actorID,
		SubjectID: subjectID,
		Detail:    detail,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if _, err := a.collection.InsertOne(ctx, entry); err != nil {
			log.Printf("audit write failed for action %s: %v", action, err)
		}
	}()
}
