package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/atlascrm/atlas_backend/models"
)

type OTEModelRepository struct {
	collection *mongo.Collection
}

func NewOTEModelRepository(db *mongo.Database) *OTEModelRepository {
	return &OTEModelRepository{collection: db.Collection("oteModels")}
}

// ResolveForSeller picks the commission model a run must use: the active
// model scoped to the seller, else the active model flagged default.
// Returns nil when neither exists.
func (r *OTEModelRepository) ResolveForSeller(ctx context.Context, sellerID primitive.ObjectID) (*models.OTEModel, error) {
	var model models.OTEModel
	err := r.collection.FindOne(ctx, bson.M{
		"sellerId": sellerID,
		"status":   models.OTEModelStatusActive,
	}).Decode(&model)
	if err == nil {
		return &model, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	err = r.collection.FindOne(ctx, bson.M{
		"isDefault": true,
		"status":    models.OTEModelStatusActive,
	}).Decode(&model)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *OTEModelRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.OTEModel, error) {
	var model models.OTEModel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&model)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &model, nil
}

func (r *OTEModelRepository) List(ctx context.Context) ([]models.OTEModel, error) {
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.OTEModel
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *OTEModelRepository) Create(ctx context.Context, model *models.OTEModel) error {
	model.ID = primitive.NewObjectID()
	model.CreatedAt = time.Now()
	model.UpdatedAt = model.CreatedAt
	_, err := r.collection.InsertOne(ctx, model)
	return err
}

func (r *OTEModelRepository) Update(ctx context.Context, id primitive.ObjectID, model *models.OTEModel) (bool, error) {
	model.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"name":                        model.Name,
			"sellerId":                    model.SellerID,
			"isDefault":                   model.IsDefault,
			"monthlyTarget":               model.MonthlyTarget,
			"fixedCommission":             model.FixedCommission,
			"variableCommissionRate":      model.VariableCommissionRate,
			"earlyChurnPeriodDays":        model.EarlyChurnPeriodDays,
			"earlyChurnPenaltyPercentage": model.EarlyChurnPenaltyPercent,
			"accelerators":                model.Accelerators,
			"status":                      model.Status,
			"updatedAt":                   model.UpdatedAt,
		},
	})
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (r *OTEModelRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	return res.DeletedCount == 1, nil
}
