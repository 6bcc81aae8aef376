package routes

import (
	"net/http"

	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/config"
	"github.com/atlascrm/atlas_backend/controllers"
	"github.com/atlascrm/atlas_backend/services"
	"github.com/atlascrm/atlas_backend/utils"
)

// SetupRoutes configures all API routes by calling individual route
// registration functions.
func SetupRoutes(e *echo.Echo, db *mongo.Client, cache *redis.Client) {
	database := db.Database(config.DatabaseName())
	audit := utils.NewAuditLogger(database)

	healthService := services.NewHealthService(database, cache, services.NewInsightService(), services.NewEmailService(), audit)
	squadService := services.NewSquadHealthService(database, audit)
	commissionService := services.NewCommissionService(database, audit)

	authController := controllers.NewAuthController(db)

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "Atlas scoring and commission API")
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	RegisterAuthRoutes(e, authController)
	RegisterScoringRoutes(e, db, healthService, squadService)
	RegisterCommissionRoutes(e, db, commissionService)
	RegisterAdminRoutes(e, db)
}
