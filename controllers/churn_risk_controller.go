package controllers

import (
	"context"
	"math"
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
)

// ChurnRiskController exposes the churn-risk scoring pipeline.
type ChurnRiskController struct {
	DB     *mongo.Client
	health *services.HealthService
	scores *repositories.ScoreRepository
}

func NewChurnRiskController(db *mongo.Client, health *services.HealthService) *ChurnRiskController {
	return &ChurnRiskController{
		DB:     db,
		health: health,
		scores: repositories.NewScoreRepository(db.Database(config.DatabaseName())),
	}
}

// CalculateChurnRisk recomputes the churn-risk score for one client.
func (cc *ChurnRiskController) CalculateChurnRisk(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.ClientScoringRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "clientId is required",
		})
	}

	score, err := cc.health.CalculateChurnRisk(ctx, middleware.GetUserIDFromToken(c), req.ClientID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.ChurnRiskResponse{
		Success: true,
		Score:   int(math.Round(score.Score)),
		Status:  score.Status,
		Factors: score.Factors,
	})
}

// GetChurnRisk returns the live churn-risk record for one client.
func (cc *ChurnRiskController) GetChurnRisk(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid client ID format",
		})
	}

	score, err := cc.scores.FindChurnRisk(ctx, objID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch churn risk score",
		})
	}
	if score == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No churn risk score found for client",
		})
	}

	return c.JSON(http.StatusOK, models.ChurnRiskResponse{
		Success: true,
		Score:   int(math.Round(score.Score)),
		Status:  score.Status,
		Factors: score.Factors,
	})
}
