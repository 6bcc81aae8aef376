package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/atlascrm/atlas_backend/controllers"
	"github.com/atlascrm/atlas_backend/middleware"
)

// RegisterAuthRoutes sets up authentication routes.
func RegisterAuthRoutes(e *echo.Echo, authController *controllers.AuthController) {
	// Public authentication routes
	e.POST("/api/auth/login", authController.Login)
	e.POST("/api/auth/refresh-token", authController.RefreshToken)

	// Logout requires a valid token to blacklist
	protected := e.Group("/api/auth")
	protected.Use(middleware.JWTMiddleware())
	protected.POST("/logout", authController.Logout)
}
