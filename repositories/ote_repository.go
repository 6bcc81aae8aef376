package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/models"
)

// OTERepository upserts commission results by their (seller, period)
// natural key, version-checked like the score collections.
type OTERepository struct {
	collection *mongo.Collection
}

func NewOTERepository(db *mongo.Database) *OTERepository {
	return &OTERepository{collection: db.Collection("oteCalculations")}
}

func (r *OTERepository) FindBySellerAndPeriod(ctx context.Context, sellerID primitive.ObjectID, period string) (*models.OTECalculation, error) {
	var calc models.OTECalculation
	err := r.collection.FindOne(ctx, bson.M{"sellerId": sellerID, "period": period}).Decode(&calc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &calc, nil
}

// Upsert writes a full recompute. A second run for the same (seller,
// period) updates the existing record in place, never creates another.
func (r *OTERepository) Upsert(ctx context.Context, calc *models.OTECalculation) error {
	for attempt := 0; attempt < maxUpsertRetries; attempt++ {
		existing, err := r.FindBySellerAndPeriod(ctx, calc.SellerID, calc.Period)
		if err != nil {
			return err
		}

		if existing == nil {
			calc.ID = primitive.NewObjectID()
			calc.Version = 1
			_, err = r.collection.InsertOne(ctx, calc)
			if isDuplicateKey(err) {
				continue
			}
			return err
		}

		calc.ID = existing.ID
		res, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": existing.ID, "version": existing.Version},
			bson.M{
				"$set": bson.M{
					"modelId":                     calc.ModelID,
					"mrrSold":                     calc.MRRSold,
					"targetAchievementPercentage": calc.TargetAchievementPct,
					"acceleratorApplied":          calc.AcceleratorApplied,
					"variableCommissionBase":      calc.VariableCommissionBase,
					"variableCommissionFinal":     calc.VariableCommissionFinal,
					"fixedCommission":             calc.FixedCommission,
					"penalties":                   calc.Penalties,
					"penaltiesTotal":              calc.PenaltiesTotal,
					"oteExpected":                 calc.OTEExpected,
					"oteRealized":                 calc.OTERealized,
					"oteDifference":               calc.OTEDifference,
					"contractIds":                 calc.ContractIDs,
					"calculatedAt":                calc.CalculatedAt,
				},
				"$inc": bson.M{"version": 1},
			})
		if err != nil {
			return err
		}
		if res.MatchedCount == 1 {
			calc.Version = existing.Version + 1
			return nil
		}
	}
	return ErrConcurrentUpdate
}

// AppendPenalty adds one ledger entry and the derived totals in a single
// version-checked update. expectedVersion is the version of the record the
// caller read; a mismatch means a concurrent writer got there first.
func (r *OTERepository) AppendPenalty(ctx context.Context, id primitive.ObjectID, expectedVersion int64, entry models.PenaltyEntry, penaltiesTotal, oteRealized, oteDifference float64) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "version": expectedVersion},
		bson.M{
			"$push": bson.M{"penalties": entry},
			"$set": bson.M{
				"penaltiesTotal": penaltiesTotal,
				"oteRealized":    oteRealized,
				"oteDifference":  oteDifference,
			},
			"$inc": bson.M{"version": 1},
		})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}
