package routes

import (
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/atlascrm/atlas_backend/controllers"
	"github.com/atlascrm/atlas_backend/middleware"
	"github.com/atlascrm/atlas_backend/models"
	"github.com/atlascrm/atlas_backend/services"
)

// RegisterCommissionRoutes sets up the OTE commission routes, restricted
// to admins and finance users.
func RegisterCommissionRoutes(e *echo.Echo, db *mongo.Client, commissionService *services.CommissionService) {
	oteController := controllers.NewOTEController(db, commissionService)

	commissions := e.Group("/api/commissions")
	commissions.Use(middleware.JWTMiddleware())
	commissions.Use(middleware.ActivityTracker(db))
	commissions.Use(middleware.RequireUserType(models.UserTypeAdmin, models.UserTypeFinanceiro))

	commissions.POST("/ote", oteController.Calculate)
	commissions.GET("/ote/:sellerId/:period", oteController.GetCalculation)
	commissions.POST("/churn-penalty", oteController.ApplyChurnPenalty)
}
