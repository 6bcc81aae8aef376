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

// SquadHealthController exposes the squad health pipeline, including the
// bulk recompute.
type SquadHealthController struct {
	DB     *mongo.Client
	squads *services.SquadHealthService
	scores *repositories.ScoreRepository
}

func NewSquadHealthController(db *mongo.Client, squads *services.SquadHealthService) *SquadHealthController {
	return &SquadHealthController{
		DB:     db,
		squads: squads,
		scores: repositories.NewScoreRepository(db.Database(config.DatabaseName())),
	}
}

// CalculateHealth recomputes the health score for one squad.
func (sc *SquadHealthController) CalculateHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req models.SquadScoringRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "squad_id is required",
		})
	}

	score, err := sc.squads.CalculateSquadHealth(ctx, middleware.GetUserIDFromToken(c), req.SquadID)
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.SquadHealthResponse{
		Success: true,
		Score:   score,
	})
}

// CalculateAll recomputes every squad in one run. Failures are reported
// per squad; the batch itself always finishes.
func (sc *SquadHealthController) CalculateAll(c echo.Context) error {
	// Bulk runs visit every squad, so the window is wider than the
	// single-squad handlers use.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	processed, bulkErrors, err := sc.squads.CalculateAllSquads(ctx, middleware.GetUserIDFromToken(c))
	if err != nil {
		return serviceErrorResponse(c, err)
	}

	return c.JSON(http.StatusOK, models.SquadBulkResponse{
		Success:   true,
		Processed: processed,
		Errors:    bulkErrors,
	})
}

// GetHealth returns the live health record for one squad.
func (sc *SquadHealthController) GetHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	objID, err := primitive.ObjectIDFromHex(c.Param("squadId"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid squad ID format",
		})
	}

	score, err := sc.scores.FindSquadHealth(ctx, objID)
	if err != nil {
		c.Logger().Error(err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to fetch squad health score",
		})
	}
	if score == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "No health score found for squad",
		})
	}

	return c.JSON(http.StatusOK, models.SquadHealthResponse{
		Success: true,
		Score:   score,
	})
}
