package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/config"
	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
)

// OTEModelController is the admin CRUD surface for commission models.
type OTEModelController struct {
	DB        *mongo.Client
	oteModels *repositories.OTEModelRepository
}

func NewOTEModelController(db *mongo.Client) *OTEModelController {
	return &OTEModelController{
		DB:        db,
		oteModels: repositories.NewOTEModelRepository(db.Database(config.DatabaseName())),
	}
}

// List returns every commission model, active or not.
func (mc *OTEModelController) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	oteModels, err := mc.oteModels.List(ctx)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch OTE models",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTE models retrieved successfully",
		Data:    oteModels,
	})
}

// Get returns one commission model by id.
func (mc *OTEModelController) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid OTE model ID format",
		})
	}

	model, err := mc.oteModels.FindByID(ctx, objID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch OTE model",
		})
	}
	if model == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "OTE model not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTE model retrieved successfully",
		Data:    model,
	})
}

// Create stores a new commission model.
func (mc *OTEModelController) Create(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var model models.OTEModel
	if err := c.Bind(&model); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validateOTEModel(&model); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if model.Status == "" {
		model.Status = models.OTEModelStatusActive
	}

	if err := mc.oteModels.Create(ctx, &model); err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create OTE model",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "OTE model created successfully",
		Data:    model,
	})
}

// Update replaces the editable fields of one commission model.
func (mc *OTEModelController) Update(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid OTE model ID format",
		})
	}

	var model models.OTEModel
	if err := c.Bind(&model); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := validateOTEModel(&model); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	updated, err := mc.oteModels.Update(ctx, objID, &model)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update OTE model",
		})
	}
	if !updated {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "OTE model not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTE model updated successfully",
	})
}

// Delete removes one commission model. Stored calculations keep their
// modelId reference; historical results are never rewritten.
func (mc *OTEModelController) Delete(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid OTE model ID format",
		})
	}

	deleted, err := mc.oteModels.Delete(ctx, objID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to delete OTE model",
		})
	}
	if !deleted {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "OTE model not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "OTE model deleted successfully",
	})
}

func validateOTEModel(model *models.OTEModel) error {
	if model.Name == "" {
		return errors.New("name is required")
	}
	if model.MonthlyTarget <= 0 {
		return errors.New("monthlyTarget must be positive")
	}
	if model.VariableCommissionRate < 0 || model.EarlyChurnPenaltyPercent < 0 {
		return errors.New("commission rates cannot be negative")
	}
	if model.EarlyChurnPeriodDays < 0 {
		return errors.New("earlyChurnPeriodDays cannot be negative")
	}
	for _, acc := range model.Accelerators {
		if acc.ThresholdPercentage < 0 || acc.Multiplier <= 0 {
			return errors.New("invalid accelerator configuration")
		}
	}
	return nil
}
