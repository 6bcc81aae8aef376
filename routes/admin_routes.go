package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/controllers"
	"github.com/atlascrm/atlas_backend/middleware"
	"github.com/atlascrm/atlas_backend/models"
)

// RegisterAdminRoutes sets up the admin-only configuration surface:
// commission model CRUD and the scoring weight configs.
func RegisterAdminRoutes(e *echo.Echo, db *mongo.Client) {
	oteModelController := controllers.NewOTEModelController(db)
	scoringConfigController := controllers.NewScoringConfigController(db)

	admin := e.Group("/api/admin")
	admin.Use(middleware.JWTMiddleware())
	admin.Use(middleware.ActivityTracker(db))
	admin.Use(middleware.RequireUserType(models.UserTypeAdmin))

	admin.GET("/ote-models", oteModelController.List)
	admin.GET("/ote-models/:id", oteModelController.Get)
	admin.POST("/ote-models", oteModelController.Create)
	admin.PUT("/ote-models/:id", oteModelController.Update)
	admin.DELETE("/ote-models/:id", oteModelController.Delete)

	admin.GET("/scoring-configs/:kind", scoringConfigController.Get)
	admin.PUT("/scoring-configs/:kind", scoringConfigController.Put)
}
