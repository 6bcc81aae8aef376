package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/controllers"
	"github.com/atlascrm/atlas_backend/middleware"
	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/services"
)

// RegisterScoringRoutes sets up the client and squad scoring routes.
// Client scoring is open to any authenticated user; squad scoring is
// restricted to admins and squad managers.
func RegisterScoringRoutes(e *echo.Echo, db *mongo.Client, healthService *services.HealthService, squadService *services.SquadHealthService) {
	churnRiskController := controllers.NewChurnRiskController(db, healthService)
	clientHealthController := controllers.NewClientHealthController(db, healthService)
	squadHealthController := controllers.NewSquadHealthController(db, squadService)

	scoring := e.Group("/api/scoring")
	scoring.Use(middleware.JWTMiddleware())
	scoring.Use(middleware.ActivityTracker(db))

	scoring.POST("/clients/churn-risk", churnRiskController.CalculateChurnRisk)
	scoring.GET("/clients/:clientId/churn-risk", churnRiskController.GetChurnRisk)
	scoring.POST("/clients/health", clientHealthController.CalculateHealth)
	scoring.GET("/clients/:clientId/health", clientHealthController.GetHealth)

	squads := scoring.Group("/squads")
	squads.Use(middleware.RequireUserType(models.UserTypeAdmin, models.UserTypeGestor))
	squads.POST("/health", squadHealthController.CalculateHealth)
	squads.POST("/health/bulk", squadHealthController.CalculateAll)
	squads.GET("/:squadId/health", squadHealthController.GetHealth)
}
