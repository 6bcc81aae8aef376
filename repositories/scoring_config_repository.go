package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atlascrm/atlas_backend/models"
)

type ScoringConfigRepository struct {
	collection *mongo.Collection
}

func NewScoringConfigRepository(db *mongo.Database) *ScoringConfigRepository {
	return &ScoringConfigRepository{collection: db.Collection("scoringConfigs")}
}

// FindByKind returns the active config for one scoring instantiation, or
// nil when absent.
func (r *ScoringConfigRepository) FindByKind(ctx context.Context, kind string) (*models.ScoringConfig, error) {
	var cfg models.ScoringConfig
	err := r.collection.FindOne(ctx, bson.M{"kind": kind, "status": "active"}).Decode(&cfg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ScoringConfigRepository) Upsert(ctx context.Context, cfg *models.ScoringConfig) error {
	cfg.UpdatedAt = time.Now()
	if cfg.Status == "" {
		cfg.Status = "active"
	}
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"kind": cfg.Kind},
		bson.M{"$set": bson.M{
			"weights":    cfg.Weights,
			"thresholds": cfg.Thresholds,
			"status":     cfg.Status,
			"updatedAt":  cfg.UpdatedAt,
		}},
		options.Update().SetUpsert(true),
	)
	return err
}
