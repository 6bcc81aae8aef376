package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/config"
	"github.com/atlascrm/atlas_backend/middleware"
	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/repositories"
	"github.com/atlascrm/atlas_backend/services"
	"github.com/atlascrm/atlas_backend/utils"
)

// OTEController exposes the commission calculation pipeline and the
// event-triggered churn penalty.
type OTEController struct {
	DB          *mongo.Client
	commissions *services.CommissionService
	calcs       *repositories.OTERepository
}

func NewOTEController(db *mongo.Client, commissions *services.CommissionService) *OTEController {
	return &OTEController{
		DB:          db,
		commissions: commissions,
		calcs:       repositories.NewOTERepository(db.Database(config.DatabaseName())),
	}
}

// Calculate runs the commission pipeline for one seller and period and
// returns the persisted calculation.
func (oc *OTEController) Calculate(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.OTECalculationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "seller_id and period are required",
		})
	}

	calc, err := oc.commissions.CalculateOTE(ctx, middleware.GetUserIDFromToken(c), req.SellerID, req.Period)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.OTECalculationResponse{
		Success:     true,
		Calculation: calc,
	})
}

// GetCalculation returns the stored calculation for one seller and
// period without recomputing it.
func (oc *OTEController) GetCalculation(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sellerID, err := primitive.ObjectIDFromHex(c.Param("sellerId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid seller ID format",
		})
	}
	period := c.Param("period")
	if _, _, err := utils.ParsePeriod(period); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid period format, expected YYYY-MM",
		})
	}

	calc, err := oc.calcs.FindBySellerAndPeriod(ctx, sellerID, period)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch OTE calculation",
		})
	}
	if calc == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No OTE calculation found for seller and period",
		})
	}

	return c.JSON(http.StatusOK, models.OTECalculationResponse{
		Success:     true,
		Calculation: calc,
	})
}

// ApplyChurnPenalty records an early-churn penalty against the stored
// calculation for the contract's start period.
func (oc *OTEController) ApplyChurnPenalty(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ChurnPenaltyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "contract_id and client_id are required",
		})
	}

	result, err := oc.commissions.ApplyChurnPenalty(ctx, middleware.GetUserIDFromToken(c), req.ContractID, req.ClientID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}
