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
)

// ClientHealthController exposes the client health scoring pipeline.
type ClientHealthController struct {
	DB     *mongo.Client
	health *services.HealthService
	scores *repositories.ScoreRepository
}

func NewClientHealthController(db *mongo.Client, health *services.HealthService) *ClientHealthController {
	return &ClientHealthController{
		DB:     db,
		health: health,
		scores: repositories.NewScoreRepository(db.Database(config.DatabaseName())),
	}
}

// CalculateHealth recomputes the health score for one client.
func (hc *ClientHealthController) CalculateHealth(c echo.Context) error {
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

	score, err := hc.health.CalculateClientHealth(ctx, middleware.GetUserIDFromToken(c), req.ClientID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.ClientHealthResponse{
		Success:     true,
		HealthScore: score,
	})
}

// GetHealth returns the live health record for one client without
// recomputing it.
func (hc *ClientHealthController) GetHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid client ID format",
		})
	}

	score, err := hc.scores.FindClientHealth(ctx, objID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch health score",
		})
	}
	if score == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No health score found for client",
		})
	}

	return c.JSON(http.StatusOK, models.ClientHealthResponse{
		Success:     true,
		HealthScore: score,
	})
}
