package repositories

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/models"
)

// ErrConcurrentUpdate is returned when a version-checked update keeps
// losing to concurrent writers after all retries.
var ErrConcurrentUpdate = errors.New("concurrent update conflict, retries exhausted")

const maxUpsertRetries = 3

// ScoreRepository upserts the single live score record each subject owns.
// Records carry a version token; updates are filtered on it so a lost
// read-modify-write surfaces as a retry instead of a silent overwrite.
type ScoreRepository struct {
	clientHealth *mongo.Collection
	squadHealth  *mongo.Collection
	churnRisk    *mongo.Collection
}

func NewScoreRepository(db *mongo.Database) *ScoreRepository {
	return &ScoreRepository{
		clientHealth: db.Collection("clientHealthScores"),
		squadHealth:  db.Collection("squadHealthScores"),
		churnRisk:    db.Collection("churnRiskScores"),
	}
}

func (r *ScoreRepository) FindClientHealth(ctx context.Context, clientID primitive.ObjectID) (*models.ClientHealthScore, error) {
	var score models.ClientHealthScore
	err := r.clientHealth.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

// UpsertClientHealth creates or replaces the live record for the client.
// The stored id and version survive; all score fields are overwritten.
func (r *ScoreRepository) UpsertClientHealth(ctx context.Context, score *models.ClientHealthScore) error {
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		existing, err := r.FindClientHealth(ctx, score.ClientID)
		if err != nil {
			return err
		}

		if existing == nil {
			score.ID = primitive.NewObjectID()
			score.Version = 1
			_, err = r.clientHealth.InsertOne(ctx, score)
			if isDuplicateKey(err) {
				continue // lost the insert race, retry as update
			}
			return err
		}

		score.ID = existing.ID
		res, err := r.clientHealth.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "version": existing.Version},
			bson.M{
				"$set": bson.M{
					"overallScore":    score.OverallScore,
					"healthStatus":    score.HealthStatus,
					"factorScores":    score.FactorScores,
					"trend":           score.Trend,
					"previousScore":   score.PreviousScore,
					"riskFactors":     score.RiskFactors,
					"recommendations": score.Recommendations,
					"aiInsight":       score.AIInsight,
					"calculatedAt":    score.CalculatedAt,
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			score.Version = existing.Version + 1
			return nil
		}
		// version moved under us, reread and retry
	}
	return ErrConcurrentUpdate
}

func (r *ScoreRepository) FindSquadHealth(ctx context.Context, squadID primitive.ObjectID) (*models.SquadHealthScore, error) {
	var score models.SquadHealthScore
	err := r.squadHealth.FindOne(ctx, bson.M{"squadId": squadID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *ScoreRepository) UpsertSquadHealth(ctx context.Context, score *models.SquadHealthScore) error {
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		existing, err := r.FindSquadHealth(ctx, score.SquadID)
		if err != nil {
			return err
		}

		if existing == nil {
			score.ID = primitive.NewObjectID()
			score.Version = 1
			_, err = r.squadHealth.InsertOne(ctx, score)
			if isDuplicateKey(err) {
				continue
			}
			return err
		}

		score.ID = existing.ID
		res, err := r.squadHealth.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "version": existing.Version},
			bson.M{
				"$set": bson.M{
					"squadName":     score.SquadName,
					"overallScore":  score.OverallScore,
					"healthStatus":  score.HealthStatus,
					"factorScores":  score.FactorScores,
					"trend":         score.Trend,
					"previousScore": score.PreviousScore,
					"riskFactors":   score.RiskFactors,
					"calculatedAt":  score.CalculatedAt,
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			score.Version = existing.Version + 1
			return nil
		}
	}
	return ErrConcurrentUpdate
}

func (r *ScoreRepository) FindChurnRisk(ctx context.Context, clientID primitive.ObjectID) (*models.ChurnRiskScore, error) {
	var score models.ChurnRiskScore
	err := r.churnRisk.FindOne(ctx, bson.M{"clientId": clientID}).Decode(&score)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &score, nil
}

func (r *ScoreRepository) UpsertChurnRisk(ctx context.Context, score *models.ChurnRiskScore) error {
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		existing, err := r.FindChurnRisk(ctx, score.ClientID)
		if err != nil {
			return err
		}

		if existing == nil {
			score.ID = primitive.NewObjectID()
			score.Version = 1
			_, err = r.churnRisk.InsertOne(ctx, score)
			if isDuplicateKey(err) {
				continue
			}
			return err
		}

		score.ID = existing.ID
		res, err := r.churnRisk.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "version": existing.Version},
			bson.M{
				"$set": bson.M{
					"score":         score.Score,
					"status":        score.Status,
					"factors":       score.Factors,
					"trend":         score.Trend,
					"previousScore": score.PreviousScore,
					"calculatedAt":  score.CalculatedAt,
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			score.Version = existing.Version + 1
			return nil
		}
	}
	return ErrConcurrentUpdate
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	return mongo.IsDuplicateKeyError(err)
}
